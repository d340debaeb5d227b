package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/jon4hz/roster/internal/config"
	"github.com/jon4hz/roster/internal/database"
	"github.com/mergestat/timediff"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  `Display the number of stored users, the newest user and storage usage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.New(cmd.Context(), cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		count, err := db.CountUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Driver: %s\n", cfg.Database.Driver)
		fmt.Printf("Total Users: %s\n", humanize.Comma(count))

		newest, err := db.GetNewestUser(cmd.Context())
		switch {
		case errors.Is(err, database.ErrUserNotFound):
		case err != nil:
			return fmt.Errorf("failed to get newest user: %w", err)
		default:
			fmt.Printf("Newest User: %s <%s>, added %s\n",
				newest.Username, newest.Email, timediff.TimeDiff(newest.CreatedAt))
		}

		if cfg.Database.Driver == config.DatabaseDriverSQLite {
			printSQLiteUsage(cmd, cfg.Database.Path)
		}
		return nil
	},
}

func printSQLiteUsage(cmd *cobra.Command, path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Database File: unavailable (%v)\n", err)
		return
	}
	size, err := safecast.Convert[uint64](info.Size())
	if err != nil {
		fmt.Printf("Database File: unavailable (%v)\n", err)
		return
	}
	fmt.Printf("Database File: %s (%s)\n", path, humanize.Bytes(size))

	usage, err := disk.UsageWithContext(cmd.Context(), filepath.Dir(path))
	if err != nil {
		fmt.Printf("Free Disk Space: unavailable (%v)\n", err)
		return
	}
	fmt.Printf("Free Disk Space: %s of %s\n", humanize.Bytes(usage.Free), humanize.Bytes(usage.Total))
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
