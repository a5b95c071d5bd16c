package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSubstitutesVars(t *testing.T) {
	u := Unit{
		Name: "postgresql",
		Vars: map[string]interface{}{
			"dataDir": "/tmp/data",
			"port":    5432,
		},
	}
	out, err := expand("{{ .dataDir }}:{{ .port }}", u)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data:5432", out)
}

func TestExpandLeavesMissingVarError(t *testing.T) {
	u := Unit{Name: "redis"}
	_, err := expand("{{ .missing }}", u)
	assert.Error(t, err)
}
