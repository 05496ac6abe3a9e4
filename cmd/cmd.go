package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configDir string
	clearData bool
)

var rootCmd = &cobra.Command{
	Use:   "expense-approval",
	Short: "Expense Approval",
	Long:  `Company signup, expense submission and manager approval.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is normal outside local development
		_ = godotenv.Load()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads config.yml from dir, or plain environment variables when
// running in a container, and validates the result.
func loadConfig(dir string) (*internal.Config, error) {
	var cfg *internal.Config
	if runningInContainer() {
		cfg = internal.LoadConfigFromEnv()
	} else {
		fileCfg, err := readConfigFile(dir)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runningInContainer() bool {
	return os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true"
}

// readConfigFile loads config.yml; ENV_<SECTION>_<KEY> variables override it.
func readConfigFile(dir string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	cfg := &internal.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory containing config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "delete existing companies, users and expenses before seeding")

	rootCmd.AddCommand(httpServerCmd, migrateCmd, seedCmd)
}
