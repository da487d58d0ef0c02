package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  StringArray
	}{
		{"json bytes", []byte(`["speling","tset"]`), StringArray{"speling", "tset"}},
		{"json string", `["a"]`, StringArray{"a"}},
		{"bare value", "speling", StringArray{"speling"}},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringArray
			require.NoError(t, got.Scan(tt.value))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad StringArray
	assert.Error(t, bad.Scan(42))
}

func TestStringArrayValue(t *testing.T) {
	v, err := StringArray{"speling"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["speling"]`, v)

	v, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
