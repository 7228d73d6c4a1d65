package cmd

import (
	"fmt"

	internalApp "github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/internal/service"
	"github.com/haierkeys/projectforge-office-service/internal/upgrade"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type migrateFlags struct {
	config string
	tables []string
	list   bool
	sql    string
}

func init() {
	flags := new(migrateFlags)

	var migrateCommand = &cobra.Command{
		Use:   "migrate [-c config_file] [-t table]... [--list] [--sql statement]",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.list {
				for _, t := range service.NewDBUtils(nil).Tables() {
					fmt.Println(t)
				}
				return nil
			}

			path, err := resolveConfigFile(flags.config)
			if err != nil {
				return err
			}
			cfg, _, err := internalApp.LoadConfig(path)
			if err != nil {
				return err
			}
			db, err := initDatabase(cfg, bootstrapLogger)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			utils := service.NewDBUtils(db)
			if flags.sql != "" {
				n, err := utils.ExecuteSQL(flags.sql)
				if err != nil {
					return err
				}
				bootstrapLogger.Info("sql executed", zap.Int64("rowsAffected", n))
				return nil
			}

			if len(flags.tables) == 0 {
				// 全量迁移时同时执行版本升级脚本
				n, err := upgrade.NewMigrationManager(db, bootstrapLogger, internalApp.Version).Run(cmd.Context())
				if err != nil {
					return err
				}
				bootstrapLogger.Info("migration done", zap.String("database", cfg.Database.Type), zap.Int("upgrades", n))
				return nil
			}
			if err := utils.AutoMigrate(flags.tables...); err != nil {
				return err
			}
			bootstrapLogger.Info("migration done", zap.String("database", cfg.Database.Type), zap.Strings("tables", flags.tables))
			return nil
		},
	}

	rootCmd.AddCommand(migrateCommand)
	fs := migrateCommand.Flags()
	fs.StringVarP(&flags.config, "config", "c", "", "config file")
	fs.StringSliceVarP(&flags.tables, "table", "t", nil, "table to migrate, all tables when omitted")
	fs.BoolVar(&flags.list, "list", false, "list migratable tables")
	fs.StringVar(&flags.sql, "sql", "", "execute a single sql statement instead of migrating")
}
