package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/config"
	"github.com/JocaCola1972/LevelUP-Connect/internal/kv"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	count  int
	enroll bool
	seed   int64
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Fill the club roster with demo players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().IntVar(&count, "count", 12, "Number of demo players to create")
	rootCmd.Flags().BoolVar(&enroll, "enroll", false, "Also enroll the demo players in random slots")
	rootCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed")
}

var firstNames = []string{"Ana", "Bruno", "Carla", "Diogo", "Eva", "Filipe", "Gabriela", "Hugo", "Inês", "João", "Leonor", "Miguel", "Nuno", "Olga", "Pedro", "Rita"}

func run(ctx context.Context) error {
	log.Info("Starting roster seeder...", "count", count)
	cfg := config.Load()

	store, teardown, err := kv.Open(kv.Options{
		Backend:    cfg.KVBackend,
		DBName:     cfg.DBName,
		TursoURL:   cfg.Turso.PrimaryURL,
		TursoToken: cfg.Turso.AuthToken,
		RedisURL:   cfg.RedisURL,
	})
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer teardown()

	state, err := club.Load(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to load club state: %w", err)
	}
	// A private registry keeps the seeder off the default one.
	clubStore := club.New(store, state, metrics.NewService(prometheus.NewRegistry()), pubsub.NewLog())
	defer func() {
		if err := clubStore.Close(ctx); err != nil {
			log.Error("Failed to close club store", "error", err)
		}
	}()

	admin, err := clubStore.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Phone)
	if err != nil {
		return fmt.Errorf("failed to ensure admin: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	sides := []club.Side{club.SideForehand, club.SideBackhand, club.SideBoth}
	var created []club.Player
	for i := 0; i < count; i++ {
		name := firstNames[i%len(firstNames)]
		if i >= len(firstNames) {
			name = fmt.Sprintf("%s %d", name, i/len(firstNames)+1)
		}
		player, err := clubStore.AddPlayer(ctx, club.PlayerDraft{
			Name:  name,
			Phone: fmt.Sprintf("9100%05d", i),
			Level: club.Level(rng.Intn(6) + 1),
			Side:  sides[rng.Intn(len(sides))],
		})
		if errors.Is(err, club.ErrDuplicatePhone) {
			log.Debug("Player already seeded", "phone", fmt.Sprintf("9100%05d", i))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to add player %s: %w", name, err)
		}
		created = append(created, player)
	}
	log.Info("Seeded players", "created", len(created), "skipped", count-len(created))

	if enroll {
		booked := 0
		for _, p := range created {
			slot := club.Slots[rng.Intn(len(club.Slots))]
			if _, err := clubStore.CreateBooking(ctx, admin.Actor(), slot, []string{p.ID}, club.ModeSolo); err != nil {
				log.Warn("Failed to enroll seeded player", "player", p.Name, "slot", slot, "error", err)
				continue
			}
			booked++
		}
		log.Info("Enrolled seeded players", "bookings", booked)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error("Seeder failed", "error", err)
		os.Exit(1)
	}
}
