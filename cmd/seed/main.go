// Command seed wipes the campgrounds table and fills it with randomly
// generated sample data owned by a dedicated seed user. Intended for
// development databases only.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"campgrounds/internal/config"
	"campgrounds/internal/domain"
	"campgrounds/internal/observability"
	"campgrounds/internal/repository/postgres"
	"campgrounds/internal/service"
)

const (
	seedCount    = 200
	seedUsername = "colt"
	seedEmail    = "colt@example.com"
	seedPassword = "seed-password-not-used"
)

var descriptors = []string{
	"Forest", "Ancient", "Petrified", "Roaring", "Cascade",
	"Tumbling", "Silent", "Redwood", "Bullfrog", "Maple",
	"Misty", "Elk", "Grizzly", "Ocean", "Sky",
	"Dusty", "Diamond",
}

var places = []string{
	"Flats", "Village", "Canyon", "Pond", "Group Camp",
	"Horse Camp", "Ghost Town", "Camp", "Dispersed Camp",
	"Backcountry", "River", "Creek", "Creekside", "Bay",
	"Spring", "Bayshore", "Sands", "Mule Camp", "Hunting Camp",
	"Cliffs", "Hollow",
}

var cities = []struct {
	name      string
	state     string
	longitude float64
	latitude  float64
}{
	{"Seattle", "Washington", -122.3321, 47.6062},
	{"Portland", "Oregon", -122.6765, 45.5231},
	{"San Francisco", "California", -122.4194, 37.7749},
	{"Denver", "Colorado", -104.9903, 39.7392},
	{"Bozeman", "Montana", -111.0429, 45.677},
	{"Boise", "Idaho", -116.2023, 43.615},
	{"Flagstaff", "Arizona", -111.6513, 35.1983},
	{"Moab", "Utah", -109.5498, 38.5733},
	{"Asheville", "North Carolina", -82.5515, 35.5951},
	{"Burlington", "Vermont", -73.2121, 44.4759},
	{"Duluth", "Minnesota", -92.1005, 46.7867},
	{"Santa Fe", "New Mexico", -105.9378, 35.687},
	{"Jackson", "Wyoming", -110.7624, 43.4799},
	{"Bar Harbor", "Maine", -68.2039, 44.3876},
	{"Gatlinburg", "Tennessee", -83.5102, 35.7143},
	{"Estes Park", "Colorado", -105.5217, 40.3772},
	{"Lake Placid", "New York", -73.9829, 44.2795},
	{"Juneau", "Alaska", -134.4197, 58.3019},
	{"Hilo", "Hawaii", -155.0868, 19.7241},
	{"Marquette", "Michigan", -87.3954, 46.5436},
}

var sampleImages = []domain.Image{
	{
		URL:      "https://images.unsplash.com/photo-1504280390367-361c6d9f38f4?w=800",
		Filename: "samples/forest-tents",
	},
	{
		URL:      "https://images.unsplash.com/photo-1533873984035-25970ab07461?w=800",
		Filename: "samples/lakeside-camp",
	},
}

const sampleDescription = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. " +
	"Quo laudantium quibusdam quia recusandae aperiam velit reiciendis, " +
	"fuga praesentium dolorem aspernatur tempore debitis quas quae " +
	"dignissimos voluptatum minus id excepturi vel."

func main() {
	cfg := config.Load()

	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.IsProduction() {
		slog.Error("refusing to seed a production database")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := config.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := config.RunMigrations(ctx, db); err != nil {
		slog.Error("migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	campgroundRepo := postgres.NewCampgroundRepository(db)
	authService := service.NewAuthService(userRepo)

	owner, err := ensureSeedUser(ctx, authService, userRepo)
	if err != nil {
		slog.Error("failed to ensure seed user", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := campgroundRepo.DeleteAll(ctx); err != nil {
		slog.Error("failed to clear campgrounds", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for i := 0; i < seedCount; i++ {
		city := cities[rand.Intn(len(cities))]
		campground := &domain.Campground{
			Title:       fmt.Sprintf("%s %s", descriptors[rand.Intn(len(descriptors))], places[rand.Intn(len(places))]),
			Description: sampleDescription,
			Price:       float64(rand.Intn(20) + 10),
			Location:    fmt.Sprintf("%s, %s", city.name, city.state),
			Longitude:   city.longitude,
			Latitude:    city.latitude,
			Images:      sampleImages,
			AuthorID:    owner.ID,
		}
		if err := campgroundRepo.Create(ctx, campground); err != nil {
			slog.Error("failed to create campground",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	slog.Info("seeded campgrounds",
		slog.Int("count", seedCount),
		slog.String("owner", owner.Username))
}

// ensureSeedUser registers the seed user, or looks it up when a previous
// run already created it.
func ensureSeedUser(ctx context.Context, auth *service.AuthService, users domain.UserRepository) (*domain.User, error) {
	user, err := auth.Register(ctx, seedUsername, seedEmail, seedPassword)
	if err == nil {
		slog.Info("created seed user", slog.String("username", user.Username))
		return user, nil
	}
	if errors.Is(err, domain.ErrUsernameExists) || errors.Is(err, domain.ErrEmailExists) {
		return users.GetByUsername(ctx, seedUsername)
	}
	return nil, err
}
