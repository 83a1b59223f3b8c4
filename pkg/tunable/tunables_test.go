package tunable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndFind(t *testing.T) {
	ts := &Tunables{}
	kp := ts.Create("kp", 4)
	ts.Create("desired distance mm", 250)

	require.NotNil(t, ts.Find("kp"))
	assert.Same(t, kp, ts.Find("kp"))
	assert.Nil(t, ts.Find("nonexistent"))
}

func TestAddSetGet(t *testing.T) {
	ts := &Tunables{}
	kp := ts.Create("kp", 4)

	kp.Add(2)
	assert.Equal(t, 6, kp.Get())
	kp.Add(-3)
	assert.Equal(t, 3, kp.Get())
	kp.Set(10)
	assert.Equal(t, 10, kp.Get())
}
