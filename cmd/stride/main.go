package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/stridehq/stride/internal/profile"
	"github.com/stridehq/stride/server"
	"github.com/stridehq/stride/store"
	"github.com/stridehq/stride/store/cache"
	"github.com/stridehq/stride/store/db"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "stride",
	Short: "A goal-tracking backend with cached list reads and cron reminders",
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.Flags().String("addr", "127.0.0.1", "binding address for the server")
	rootCmd.Flags().Int("port", 8081, "binding port for the server")
	rootCmd.Flags().String("data", ".", "data directory")
	rootCmd.Flags().String("driver", "sqlite", `database driver, can be "sqlite" or "postgres"`)
	rootCmd.Flags().String("dsn", "", "database connection string")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("stride")
	viper.AutomaticEnv()
}

func newProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version,
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPageCache(p *profile.Profile) cache.PageCache {
	if !p.IsCacheEnabled() {
		slog.Info("page cache disabled, reads go straight to the store")
		return cache.NewNopCache()
	}
	config := cache.DefaultConfig()
	config.Addr = p.RedisAddr
	config.Password = p.RedisPassword
	config.DB = p.RedisDB
	pageCache, err := cache.NewRedisCache(config)
	if err != nil {
		// The cache is an availability optimization, never a requirement.
		slog.Warn("redis unreachable, continuing without page cache", "addr", p.RedisAddr, "error", err)
		return cache.NewNopCache()
	}
	return pageCache
}

func run() error {
	p, err := newProfile()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	driver, err := db.NewDBDriver(p)
	if err != nil {
		return err
	}
	st := store.New(driver, p)
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	srv := server.NewServer(p, st, newPageCache(p))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		srv.Shutdown(context.Background())
		return nil
	})
	return g.Wait()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run server", "error", err)
		os.Exit(1)
	}
}
