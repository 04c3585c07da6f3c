// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"sync"

	"github.com/spf13/viper"
)

const (
	Local      = "local"
	Production = "production"
	Testing    = "testing"
)

var (
	env  string
	once sync.Once
)

// Current returns the deployment environment, from ZAPSTORE_ENV or the
// viper key "env". Unset means Local.
func Current() string {
	once.Do(func() {
		viper.SetDefault("env", Local)
		viper.BindEnv("env", "ZAPSTORE_ENV")
		env = viper.GetString("env")
	})
	return env
}

func IsLocal() bool {
	return Current() == Local
}

func IsProduction() bool {
	return Current() == Production
}

func IsTesting() bool {
	return Current() == Testing
}
