package mapssvc

import (
	"testing"

	models "field_service/internal/api/maps/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit(floor, sequence int, status string, tries int) models.MapUnit {
	return models.MapUnit{
		Floor:        floor,
		Sequence:     sequence,
		Status:       status,
		NotHomeTries: tries,
	}
}

func TestGroupByFloorOrdering(t *testing.T) {
	units := []models.MapUnit{
		unit(1, 2, models.UnitStatusDefault, 0),
		unit(3, 1, models.UnitStatusDefault, 0),
		unit(1, 0, models.UnitStatusDefault, 0),
		unit(2, 5, models.UnitStatusDefault, 0),
		unit(3, 0, models.UnitStatusDefault, 0),
	}

	groups := GroupByFloor(units)
	require.Len(t, groups, 3)

	// Tầng cao trước
	assert.Equal(t, 3, groups[0].Floor)
	assert.Equal(t, 2, groups[1].Floor)
	assert.Equal(t, 1, groups[2].Floor)

	// Trong tầng: sequence tăng dần
	assert.Equal(t, []int{0, 1}, []int{groups[0].Units[0].Sequence, groups[0].Units[1].Sequence})
	assert.Equal(t, []int{0, 2}, []int{groups[2].Units[0].Sequence, groups[2].Units[1].Sequence})

	// Input không bị sắp xếp tại chỗ
	assert.Equal(t, 1, units[0].Floor)
	assert.Equal(t, 2, units[0].Sequence)
}

func TestGroupByFloorEmpty(t *testing.T) {
	groups := GroupByFloor(nil)
	require.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestSummarizeUnits(t *testing.T) {
	maxTries := 3
	units := []models.MapUnit{
		unit(0, 0, models.UnitStatusDone, 0),      // processed
		unit(0, 1, models.UnitStatusDefault, 0),   // counted, chưa xử lý
		unit(0, 2, models.UnitStatusNotHome, 1),   // chưa đạt ngưỡng
		unit(0, 3, models.UnitStatusNotHome, 3),   // đạt ngưỡng → processed
		unit(0, 4, models.UnitStatusInvalid, 0),   // ngoài mẫu số
		unit(0, 5, models.UnitStatusDoNotCall, 0), // ngoài mẫu số
	}

	progress, notDone, notHome := SummarizeUnits(units, maxTries)

	// counted = 4, processed = 2
	assert.InDelta(t, 50.0, progress, 1e-9)
	assert.Equal(t, 2, notDone)
	assert.Equal(t, 2, notHome) // cả hộ not_home đạt ngưỡng vẫn đếm vào notHome
}

func TestSummarizeUnitsNoCountedUnits(t *testing.T) {
	units := []models.MapUnit{
		unit(0, 0, models.UnitStatusInvalid, 0),
		unit(0, 1, models.UnitStatusDoNotCall, 0),
	}

	progress, notDone, notHome := SummarizeUnits(units, 3)
	assert.Zero(t, progress)
	assert.Zero(t, notDone)
	assert.Zero(t, notHome)
}

func TestEscalateNotHomeTriesCappedAtMax(t *testing.T) {
	assert.Equal(t, 1, EscalateNotHomeTries(0, 3))
	assert.Equal(t, 3, EscalateNotHomeTries(2, 3))
	assert.Equal(t, 3, EscalateNotHomeTries(3, 3)) // đạt ngưỡng rồi thì giữ nguyên
	assert.Equal(t, 3, EscalateNotHomeTries(7, 3)) // dữ liệu cũ vượt ngưỡng bị kéo về
}

func TestProcessedFollowsEscalation(t *testing.T) {
	u := unit(0, 0, models.UnitStatusNotHome, 0)
	maxTries := 2

	for i := 0; i < maxTries; i++ {
		assert.False(t, u.Processed(maxTries))
		u.NotHomeTries = EscalateNotHomeTries(u.NotHomeTries, maxTries)
	}
	assert.True(t, u.Processed(maxTries))
}
