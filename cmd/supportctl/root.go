package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	applog "github.com/supportdesk/backend/internal/infrastructure/log"
)

var cfgFile string

// rootCmd supportctl 根命令
var rootCmd = &cobra.Command{
	Use:   "supportctl",
	Short: "Operator tool for the support desk backend",
	Long: `supportctl manages the support desk knowledge base and routing policy:
ingest historical interactions, preview classification, inspect the
interaction log and validate policy files.`,
	SilenceUsage: true,
}

// Execute 执行根命令
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.supportctl.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite interaction log path (or set SUPPORTDESK_DB_PATH)")
	rootCmd.PersistentFlags().String("policy", "", "policy YAML file (or set SUPPORTDESK_POLICY_FILE)")
	rootCmd.PersistentFlags().String("qdrant-host", "", "Qdrant host (or set QDRANT_HOST)")
	rootCmd.PersistentFlags().Int("qdrant-port", 0, "Qdrant gRPC port (or set QDRANT_PORT)")
	rootCmd.PersistentFlags().String("collection", "", "Qdrant collection name")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("policy.file", rootCmd.PersistentFlags().Lookup("policy"))
	_ = viper.BindPFlag("qdrant.host", rootCmd.PersistentFlags().Lookup("qdrant-host"))
	_ = viper.BindPFlag("qdrant.port", rootCmd.PersistentFlags().Lookup("qdrant-port"))
	_ = viper.BindPFlag("qdrant.collection", rootCmd.PersistentFlags().Lookup("collection"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newPolicyCmd())
}

// initConfig 读取 .env、配置文件与 SUPPORTCTL_ 前缀的环境变量
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".supportctl")
	}

	viper.SetEnvPrefix("SUPPORTCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("debug") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// 日志写 stderr，stdout 留给命令输出
	logCfg := applog.NewConfigFromEnv()
	if logCfg.Output == "stdout" {
		logCfg.Output = "stderr"
	}
	if viper.GetBool("debug") {
		logCfg.Level = "debug"
	}
	applog.Init(logCfg)
}

// loadConfig 服务配置叠加命令行与配置文件中的覆盖项
func loadConfig() *config.Config {
	cfg := config.NewConfig()
	if v := viper.GetString("database.path"); v != "" {
		cfg.Database.Path = v
	}
	if v := viper.GetString("policy.file"); v != "" {
		cfg.Support.PolicyFile = v
	}
	if v := viper.GetString("qdrant.host"); v != "" {
		cfg.Vector.Host = v
	}
	if v := viper.GetInt("qdrant.port"); v > 0 {
		cfg.Vector.Port = v
	}
	if v := viper.GetString("qdrant.collection"); v != "" {
		cfg.Vector.Collection = v
	}
	return cfg
}
