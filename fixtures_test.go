package arff_test

import (
	"os"
	"testing"

	"github.com/mbillingr/arff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type decodeCase struct {
	Name  string       `yaml:"name"`
	Input string       `yaml:"input"`
	Rows  [][2]float64 `yaml:"rows"`
	Err   bool         `yaml:"err"`
}

func TestDecodeFixtures(t *testing.T) {
	t.Parallel()
	raw, err := os.ReadFile("testdata/decode_cases.yaml")
	require.NoError(t, err)

	var cases []decodeCase
	require.NoError(t, yaml.Unmarshal(raw, &cases))
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			var got [][2]float64
			err := arff.Unmarshal([]byte(tc.Input), &got)
			if tc.Err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if len(tc.Rows) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.Rows, got)
		})
	}
}
