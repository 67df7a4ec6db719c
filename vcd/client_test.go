package vcd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vijendrasi/container-service-extension/config"
)

func TestVCenterCredentials(t *testing.T) {
	client := NewClient(&config.VCD{}, []*config.VCS{
		{Name: "vc1", Username: "u1", Password: "p1"},
		{Name: "vc2", Username: "u2", Password: "p2", Verify: true},
	})

	vc, err := client.VCenterCredentials("vc2")
	assert.NoError(t, err)
	assert.Equal(t, "u2", vc.Username)
	assert.True(t, vc.Verify)

	_, err = client.VCenterCredentials("vc3")
	assert.Error(t, err)
}
