package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	auditor "github.com/TarunShaji/Website-Auditor"
	"github.com/TarunShaji/Website-Auditor/config"
	"github.com/TarunShaji/Website-Auditor/database"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "auditor",
		Short: "crawl a website and audit it for technical defects",
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "path to the config file")
	rootCmd.AddCommand(newAuditCmd(), newServeCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "run one audit and print the reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, errConf := config.Get(configFile)
			if errConf != nil {
				return errConf
			}
			result, errRun := auditor.New(conf).Run(context.Background())
			if errRun != nil {
				return errRun
			}
			auditor.ReportSummary(result, cmd.OutOrStdout())
			auditor.ReportIssues(result, cmd.OutOrStdout())
			auditor.ReportBrokenLinks(result, cmd.OutOrStdout())

			if conf.Database.DSN != "" {
				db, errDB := database.NewPostgresDB(conf.Database.DSN)
				if errDB != nil {
					return errDB
				}
				defer db.DB.Close()
				if errSave := db.SaveAudit(result); errSave != nil {
					return errSave
				}
				logrus.WithField("run", result.RunID).Info("audit saved")
			}
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run an audit and serve results, reports and metrics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, errConf := config.Get(configFile)
			if errConf != nil {
				return errConf
			}
			registry := prometheus.NewRegistry()
			metrics := auditor.SetupMetrics(registry)
			service := auditor.NewService(registry)

			go func() {
				result, errRun := auditor.New(conf, auditor.WithMetrics(metrics)).Run(context.Background())
				if errRun != nil {
					logrus.WithError(errRun).Error("audit failed")
					return
				}
				service.SetResult(result)
			}()

			logrus.WithField("addr", conf.Addr).Info("serving")
			return http.ListenAndServe(conf.Addr, service)
		},
	}
}
