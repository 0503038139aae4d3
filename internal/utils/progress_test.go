package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Disabled(t *testing.T) {
	var out bytes.Buffer
	p := newProgress(&out, 10, false)

	assert.False(t, p.Enabled())
	p.Update(5, "scene/01/jd00/mapinfo.bin")
	p.Finish()
	assert.Empty(t, out.String())
}

func TestProgress_ZeroTotal(t *testing.T) {
	var out bytes.Buffer
	p := newProgress(&out, 0, true)
	assert.False(t, p.Enabled())
	p.Finish()
}

func TestProgress_LabelTruncatesFromLeft(t *testing.T) {
	p := &Progress{}
	p.label = "/scene/01/jd00/mt5/jd00_room.mt5"

	got := p.currentLabel()
	assert.Len(t, got, labelWidth)
	assert.True(t, strings.HasPrefix(got, ".."))
	assert.True(t, strings.HasSuffix(got, "jd00_room.mt5"))

	p.label = "short"
	assert.Equal(t, "short", p.currentLabel())
}
