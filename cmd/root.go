package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configDefault 内嵌的默认配置，找不到配置文件时写入 config/config.yaml
var configDefault string

var rootCmd = &cobra.Command{
	Use:   "projectforge-office-service",
	Short: "ProjectForge Office Service: contracts, mail registers and visitor book",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute 执行命令行
func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
