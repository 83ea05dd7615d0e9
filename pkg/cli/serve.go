package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	"wordma/pkg/config"
	"wordma/pkg/database"
	"wordma/pkg/handlers"
	"wordma/pkg/services"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd returns the serve command.
func ServeCmd(cfg *config.Config, sigCh <-chan os.Signal) *Command {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := flags.String("addr", cfg.BridgeAddr, "listen address of the command bridge")

	return &Command{
		Flags: flags,
		Usage: "serve [--addr]",
		Short: "Start the command bridge for the editor",
		Long: "Open the database, apply pending migrations and serve the command bridge on a\n" +
			"loopback address. The bridge token printed at startup must be exchanged at\n" +
			"POST /auth/handshake before any command can be invoked.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execServe(ctx, o, cfg, *addr, sigCh)
		},
	}
}

func execServe(ctx context.Context, o *IO, cfg *config.Config, addr string, sigCh <-chan os.Signal) error {
	db, err := database.Open(ctx, cfg.DBPath(), cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	token := uuid.NewString()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	api := &handlers.API{
		Store:       services.NewStore(db),
		Themes:      newThemeManager(cfg, nil),
		Deploy:      newDeployManager(cfg, nil),
		ContentDir:  cfg.Resolve(cfg.ContentDir),
		BridgeToken: token,
		OAuth:       config.OauthConf,
	}
	router := handlers.NewRouter(api, handlers.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		SessionSecret:  []byte(secret),
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	o.Printf("bridge listening on http://%s\n", ln.Addr())
	o.Printf("bridge token: %s\n", token)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case sig := <-sigCh:
		log.Printf("收到信号 %s，正在关闭服务器", sig)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	o.Println("bridge stopped")
	return nil
}

func newThemeManager(cfg *config.Config, stream *IO) *services.ThemeManager {
	return &services.ThemeManager{
		ThemesDir:      cfg.Resolve(cfg.ThemesDir),
		DeployDir:      cfg.Resolve(cfg.DeployDir),
		PackageManager: cfg.PackageManager,
		Runner:         newRunner(stream),
	}
}

func newDeployManager(cfg *config.Config, stream *IO) *services.DeployManager {
	return &services.DeployManager{
		Root:      cfg.ProjectRoot,
		DeployDir: cfg.Resolve(cfg.DeployDir),
		Branch:    cfg.GitBranch,
		UserName:  cfg.GitUserName,
		UserEmail: cfg.GitUserEmail,
		Runner:    newRunner(stream),
	}
}

// newRunner streams tool output to the terminal when a command runs from the CLI.
func newRunner(stream *IO) services.Runner {
	if stream == nil {
		return services.ExecRunner{}
	}
	return services.ExecRunner{Stream: stream.out}
}
