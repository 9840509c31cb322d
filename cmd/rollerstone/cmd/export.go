package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every inquiry to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := requireStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		path := exportOut
		if path == "" {
			path = filepath.Join("reports", fmt.Sprintf("inquiries_%s.xlsx", time.Now().Format("20060102_150405")))
		}

		if err := store.ExportInquiriesToExcel(cmd.Context(), path); err != nil {
			return err
		}
		log.Info("Inquiries exported", zap.String("path", path))
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default reports/inquiries_<timestamp>.xlsx)")
}
