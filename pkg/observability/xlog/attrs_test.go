package xlog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, "boom", attr.Value.String())

	assert.Equal(t, "<nil>", Err(nil).Value.String())
}

func TestComponent(t *testing.T) {
	attr := Component("fetch")
	assert.Equal(t, KeyComponent, attr.Key)
	assert.Equal(t, "fetch", attr.Value.String())
}

func TestDuration(t *testing.T) {
	attr := Duration(90 * time.Second)
	assert.Equal(t, KeyDuration, attr.Key)
	assert.Equal(t, "1m30s", attr.Value.String())
}

func TestCount(t *testing.T) {
	attr := Count(7)
	assert.Equal(t, KeyCount, attr.Key)
	assert.EqualValues(t, 7, attr.Value.Int64())
}
