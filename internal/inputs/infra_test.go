package inputs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInfrastructureFileParsesServers(t *testing.T) {
	path := writeCSV(t, "servers.csv", ""+
		"id,location,ram,cpu\n"+
		"s1,A,64,16\n"+
		"s2,B,128,32\n")

	servers, err := ReadInfrastructureFile(path)
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "s1", servers[0].ID)
	assert.Equal(t, "A", servers[0].Location)
	assert.Equal(t, 64.0, servers[0].Capacity.Get(0))
	assert.Equal(t, 32.0, servers[1].Capacity.Get(1))
}

func TestReadInfrastructureFileRejectsDuplicateID(t *testing.T) {
	path := writeCSV(t, "servers.csv", ""+
		"id,location,ram,cpu\n"+
		"s1,A,64,16\n"+
		"s1,B,128,32\n")

	_, err := ReadInfrastructureFile(path)
	assert.Error(t, err)
}
