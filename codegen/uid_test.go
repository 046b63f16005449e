package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUIDAllocator(t *testing.T) {
	t.Parallel()
	uids := newUIDAllocator()

	assert.Equal(t, "result0", uids.next("result"))
	assert.Equal(t, "result1", uids.next("result"))

	uids.reset()
	assert.Equal(t, "result0", uids.next("result"))
}

func TestUIDAllocatorIndependentPrefixes(t *testing.T) {
	t.Parallel()
	uids := newUIDAllocator()

	assert.Equal(t, "result0", uids.next("result"))
	assert.Equal(t, "savedPos0", uids.next("savedPos"))
	assert.Equal(t, "result1", uids.next("result"))
	assert.Equal(t, "savedPos1", uids.next("savedPos"))
}
