package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/devstack/internal/model"
)

func TestSelectServiceContainers(t *testing.T) {
	containers := []model.ContainerInfo{
		{ServiceName: "api", ContainerName: "devstack-api-1", Status: "running"},
		{ServiceName: "api", ContainerName: "devstack-api-2", Status: "exited"},
		{ServiceName: "admin", ContainerName: "devstack-admin-1", Status: "exited"},
	}

	all, err := selectServiceContainers(containers, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	api, err := selectServiceContainers(containers, []string{"api"})
	require.NoError(t, err)
	assert.Len(t, api, 2)

	_, err = selectServiceContainers(containers, []string{"docs"})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
}
