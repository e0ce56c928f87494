package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicdash/clinicdash/internal/config"
	"github.com/clinicdash/clinicdash/internal/domain/dates"
	"github.com/clinicdash/clinicdash/internal/domain/followup"
	"github.com/clinicdash/clinicdash/internal/domain/visit"
	"github.com/clinicdash/clinicdash/internal/platform/middleware"
	"github.com/clinicdash/clinicdash/internal/platform/refresh"
	"github.com/clinicdash/clinicdash/internal/upstream"
	"github.com/clinicdash/clinicdash/internal/view"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinicdash",
		Short: "Clinic intake dashboard gateway",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gateway version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("clinicdash " + version)
		},
	}
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print clinic reports to stdout",
	}

	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the visit summary for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			dateStr, _ := cmd.Flags().GetString("date")

			cfg, client, err := loadClient()
			if err != nil {
				return err
			}

			day := dates.Today()
			if dateStr != "" {
				day, err = dates.ParseDate(dateStr)
				if err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.ClinicAPITimeout())
			defer cancel()

			visits, err := client.DailyPatients(ctx, day)
			if err != nil {
				return err
			}

			agg := visit.NewAggregator(visit.NewBillableSet(cfg.BillableVisitTypes))
			billable, summary := agg.Apply(visits, visit.Filter{})

			fmt.Printf("Daily report for %s\n", day)
			fmt.Printf("%-30s %-20s %-15s %s\n", "PATIENT", "DOCTOR", "TYPE", "STATUS")
			fmt.Println("------------------------------ -------------------- --------------- ---------------")
			for _, v := range billable {
				fmt.Printf("%-30s %-20s %-15s %s\n", v.PatientName, v.Doctor, v.VisitType, v.Status)
			}
			fmt.Println()
			fmt.Printf("Total: %d  Accepted: %d  Not accepted: %d  Thinking: %d\n",
				summary.Total, summary.Accepted, summary.NotAccepted, summary.Thinking)

			followUps, err := client.FollowUps(ctx)
			if err != nil {
				return err
			}
			tally := followup.Count(followUps, day)
			fmt.Printf("Follow-ups: %d pending, %d overdue, %d completed\n",
				tally.Pending, tally.Overdue, tally.Completed)
			return nil
		},
	}
	dailyCmd.Flags().String("date", "", "Report date (YYYY-MM-DD, defaults to today)")
	cmd.AddCommand(dailyCmd)

	monthlyCmd := &cobra.Command{
		Use:   "monthly",
		Short: "Print the monthly statistics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			month, _ := cmd.Flags().GetInt("month")

			today := dates.Today()
			if year == 0 {
				year = today.Year
			}
			if month == 0 {
				month = int(today.Month)
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be between 1 and 12, got %d", month)
			}

			cfg, client, err := loadClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.ClinicAPITimeout())
			defer cancel()

			stats, err := client.MonthlyStatistics(ctx, year, month)
			if err != nil {
				return err
			}

			fmt.Printf("Monthly report for %04d-%02d\n", stats.Year, stats.Month)
			fmt.Printf("Total patients:  %d\n", stats.TotalPatients)
			fmt.Printf("Accepted:        %d\n", stats.Accepted)
			fmt.Printf("Not accepted:    %d\n", stats.NotAccepted)
			fmt.Printf("Thinking:        %d\n", stats.Thinking)
			fmt.Printf("Acceptance rate: %.1f%%\n", stats.AcceptanceRate)
			fmt.Printf("Revisits:        %d\n", stats.RevisitCount)

			if len(stats.DoctorStats) > 0 {
				fmt.Println("\nBy doctor:")
				for name, count := range stats.DoctorStats {
					fmt.Printf("  %-30s %d\n", name, count)
				}
			}
			if len(stats.VisitTypes) > 0 {
				fmt.Println("\nBy visit type:")
				for name, count := range stats.VisitTypes {
					fmt.Printf("  %-30s %d\n", name, count)
				}
			}

			trend, err := client.WeeklyTrend(ctx, year, month)
			if err != nil {
				return err
			}
			if trend.Warning {
				fmt.Printf("\nTREND WARNING: %s\n", trend.Message)
			}
			return nil
		},
	}
	monthlyCmd.Flags().Int("year", 0, "Report year (defaults to current)")
	monthlyCmd.Flags().Int("month", 0, "Report month 1-12 (defaults to current)")
	cmd.AddCommand(monthlyCmd)

	return cmd
}

func loadClient() (*config.Config, *upstream.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.ClinicAPIURL == "" {
		return nil, nil, fmt.Errorf("CLINIC_API_URL is required")
	}
	client := upstream.New(cfg.ClinicAPIURL, upstream.WithTimeout(cfg.ClinicAPITimeout()))
	return cfg, client, nil
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Upstream clinic API client
	client := upstream.New(cfg.ClinicAPIURL,
		upstream.WithTimeout(cfg.ClinicAPITimeout()),
		upstream.WithLogger(logger),
	)
	logger.Info().Str("upstream", cfg.ClinicAPIURL).Msg("clinic API client configured")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(cfg.ClinicAPITimeout() + 5*time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Refresh hub, shared by the dashboard handlers and the websocket feed
	hub := refresh.NewHub()

	// Dashboard routes carry bearer auth when a secret is configured
	dashboard := e.Group("/dashboard")
	dashboard.Use(middleware.BearerAuth(cfg.AuthSecret))

	agg := visit.NewAggregator(visit.NewBillableSet(cfg.BillableVisitTypes))

	view.NewHomeHandler(client, hub).RegisterRoutes(dashboard)
	view.NewDailyHandler(client, agg, hub).RegisterRoutes(dashboard)
	view.NewFollowUpHandler(client, hub).RegisterRoutes(dashboard)
	view.NewMessageHandler(client, hub).RegisterRoutes(dashboard)
	view.NewDoctorHandler(client, hub).RegisterRoutes(dashboard)
	view.NewStatsHandler(client).RegisterRoutes(dashboard)

	// Websocket refresh feed stays outside the timeout-guarded dashboard group
	refresh.NewHandler(hub).RegisterRoutes(e.Group(""))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
