package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShareLinkExpired(t *testing.T) {
	now := time.Now()
	link := ShareLink{ExpiresAt: now.UnixMilli()}

	assert.False(t, link.Expired(now), "đúng mốc hết hạn vẫn còn dùng được")
	assert.False(t, link.Expired(now.Add(-time.Minute)))
	assert.True(t, link.Expired(now.Add(time.Millisecond)))
	assert.True(t, link.Expired(now.Add(24*time.Hour)))
}

func TestValidLinkType(t *testing.T) {
	assert.True(t, ValidLinkType(LinkTypeAssignment))
	assert.True(t, ValidLinkType(LinkTypePersonal))
	assert.True(t, ValidLinkType(LinkTypeView))
	assert.False(t, ValidLinkType(""))
	assert.False(t, ValidLinkType("edit"))
}
