package main_test

import (
	"testing"

	acviper "github.com/fwojciec/agrocostos/viper"
)

func testConfig(t *testing.T) *acviper.Config {
	t.Helper()
	return acviper.DefaultConfig()
}
