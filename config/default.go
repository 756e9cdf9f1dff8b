package config

import (
	"github.com/spf13/viper"
	"github.com/testdeck/testdeck/pkg/constants"
)

func setDefaultConfig() {
	viper.SetDefault("Data.LogConfig.EnableConsole", true)
	viper.SetDefault("Data.LogConfig.ConsoleJSONFormat", false)
	viper.SetDefault("Data.LogConfig.ConsoleLevel", "debug")
	viper.SetDefault("Data.LogConfig.EnableFile", true)
	viper.SetDefault("Data.LogConfig.FileJSONFormat", true)
	viper.SetDefault("Data.LogConfig.FileLevel", "debug")
	viper.SetDefault("Data.LogConfig.FileLocation", "./testdeck.log")
	viper.SetDefault("Data.Env", "prod")
	viper.SetDefault("Data.Port", "9876")
	viper.SetDefault("Data.Verbose", true)
	viper.SetDefault("Data.Storage.BaseDir", "./attachments")
	viper.SetDefault("Data.Storage.MaxUploadSize", constants.DefaultMaxUploadSize)
	viper.SetDefault("Data.GracefulTimeout", constants.DefaultGracefulTimeout)
	viper.SetDefault("Data.ShutDownDelay", constants.DefaultShutDownDelay)
}
