package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"healthtracker/internal/auth"
	"healthtracker/internal/config"
	"healthtracker/internal/db"
	"healthtracker/internal/logging"
	"healthtracker/internal/mail"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
	"healthtracker/internal/service"
)

const defaultSeedFile = "cmd/seed/fixtures.yaml"

// Fixtures is the layout of the seed file.
type Fixtures struct {
	Users  []UserFixture  `yaml:"users"`
	Groups []GroupFixture `yaml:"groups"`
	Goals  []GoalFixture  `yaml:"goals"`
}

type UserFixture struct {
	Username  string            `yaml:"username"`
	RealName  string            `yaml:"real_name"`
	Email     string            `yaml:"email"`
	Password  string            `yaml:"password"`
	Height    *float64          `yaml:"height"`
	Weight    *float64          `yaml:"weight"`
	Age       *int              `yaml:"age"`
	Gender    *model.Gender     `yaml:"gender"`
	Exercises []ExerciseFixture `yaml:"exercises"`
	Meals     []MealFixture     `yaml:"meals"`
}

type ExerciseFixture struct {
	Type     string   `yaml:"type"`
	Duration float64  `yaml:"duration"`
	Distance *float64 `yaml:"distance"`
	DaysAgo  int      `yaml:"days_ago"`
}

type MealFixture struct {
	Food     string         `yaml:"food"`
	Calories float64        `yaml:"calories"`
	MealType model.MealType `yaml:"meal_type"`
	DaysAgo  int            `yaml:"days_ago"`
}

type GroupFixture struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Admin       string   `yaml:"admin"`
	Members     []string `yaml:"members"`
}

type GoalFixture struct {
	Owner        string         `yaml:"owner"`
	Group        string         `yaml:"group"`
	Type         model.GoalType `yaml:"type"`
	Title        string         `yaml:"title"`
	Description  string         `yaml:"description"`
	TargetValue  *float64       `yaml:"target_value"`
	CurrentValue *float64       `yaml:"current_value"`
	TargetInDays int            `yaml:"target_in_days"`
}

// LoadFixtures reads and decodes a seed file.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

type seeder struct {
	users     repository.UserRepository
	auth      service.AuthService
	exercises service.ExerciseService
	diet      service.DietService
	groups    service.GroupService
	goals     service.GoalService
	log       *logrus.Logger
	now       func() time.Time
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Starting seed script...")

	path := os.Getenv("SEED_FILE")
	if path == "" {
		path = defaultSeedFile
	}
	fixtures, err := LoadFixtures(path)
	if err != nil {
		log.WithError(err).Fatal("load fixtures")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := db.Migrate(gormDB, false, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}
	log.Info("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	goalRepo := repository.NewGoalRepository(gormDB)
	groupRepo := repository.NewGroupRepository(gormDB)
	txManager := repository.NewTxManager(gormDB)
	loc := cfg.Location()

	// Sessions issued here are discarded, so no revocation store is needed.
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)

	s := &seeder{
		users:     userRepo,
		auth:      service.NewAuthService(userRepo, jwtService, auth.NewTokenStore(nil), auth.NewBcryptHasher(auth.BcryptCost)),
		exercises: service.NewExerciseService(repository.NewExerciseRepository(gormDB), userRepo),
		diet:      service.NewDietService(repository.NewDietRepository(gormDB), loc),
		groups:    service.NewGroupService(groupRepo, goalRepo, userRepo, txManager, mail.NewLogSender(log), cfg.ClientURL, log),
		goals:     service.NewGoalService(goalRepo, groupRepo, log),
		log:       log,
		now:       time.Now,
	}

	if err := s.apply(context.Background(), fixtures); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.Info("Seed completed")
}

// apply creates the fixture data. Users that already exist are skipped
// together with the groups they administer and the goals they own.
func (s *seeder) apply(ctx context.Context, f *Fixtures) error {
	ids := make(map[string]uuid.UUID, len(f.Users))
	created := make(map[string]bool, len(f.Users))

	for _, u := range f.Users {
		existing, err := s.users.FindByUsername(ctx, u.Username)
		if err == nil {
			s.log.WithField("username", u.Username).Info("user exists, skipping")
			ids[u.Username] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup %s: %w", u.Username, err)
		}

		_, user, err := s.auth.Register(ctx, service.RegisterInput{
			Username: u.Username,
			RealName: u.RealName,
			Email:    u.Email,
			Password: u.Password,
			PhysicalDetails: &model.PhysicalDetails{
				Height: u.Height,
				Weight: u.Weight,
				Age:    u.Age,
				Gender: u.Gender,
			},
		})
		if err != nil {
			return fmt.Errorf("register %s: %w", u.Username, err)
		}
		ids[u.Username] = user.ID
		created[u.Username] = true

		if err := s.logEntries(ctx, user.ID, u); err != nil {
			return fmt.Errorf("entries for %s: %w", u.Username, err)
		}
		s.log.WithField("username", u.Username).Info("user created")
	}

	groupIDs := make(map[string]uuid.UUID, len(f.Groups))
	for _, g := range f.Groups {
		adminID, ok := ids[g.Admin]
		if !ok {
			return fmt.Errorf("group %q: unknown admin %q", g.Name, g.Admin)
		}
		if !created[g.Admin] {
			continue
		}
		group, err := s.groups.Create(ctx, adminID, g.Name, g.Description)
		if err != nil {
			return fmt.Errorf("create group %q: %w", g.Name, err)
		}
		groupIDs[g.Name] = group.ID

		for _, member := range g.Members {
			memberID, ok := ids[member]
			if !ok {
				return fmt.Errorf("group %q: unknown member %q", g.Name, member)
			}
			if _, err := s.groups.Join(ctx, memberID, group.InviteCode); err != nil {
				return fmt.Errorf("join %q as %s: %w", g.Name, member, err)
			}
		}
		s.log.WithFields(logrus.Fields{"group": g.Name, "invite_code": group.InviteCode}).Info("group created")
	}

	for _, g := range f.Goals {
		ownerID, ok := ids[g.Owner]
		if !ok {
			return fmt.Errorf("goal %q: unknown owner %q", g.Title, g.Owner)
		}
		if !created[g.Owner] {
			continue
		}
		target := s.now().AddDate(0, 0, g.TargetInDays)
		in := service.GoalInput{
			Type:         g.Type,
			Title:        g.Title,
			Description:  g.Description,
			TargetValue:  g.TargetValue,
			CurrentValue: g.CurrentValue,
			TargetDate:   &target,
		}
		if g.Group != "" {
			groupID, ok := groupIDs[g.Group]
			if !ok {
				return fmt.Errorf("goal %q: unknown group %q", g.Title, g.Group)
			}
			in.IsGroupGoal = true
			in.GroupID = &groupID
		}
		if _, err := s.goals.Create(ctx, ownerID, in); err != nil {
			return fmt.Errorf("create goal %q: %w", g.Title, err)
		}
	}
	return nil
}

func (s *seeder) logEntries(ctx context.Context, userID uuid.UUID, u UserFixture) error {
	for _, ex := range u.Exercises {
		date := s.now().AddDate(0, 0, -ex.DaysAgo)
		if _, err := s.exercises.Add(ctx, userID, service.ExerciseInput{
			ExerciseType: ex.Type,
			Duration:     ex.Duration,
			Distance:     ex.Distance,
			Date:         &date,
		}); err != nil {
			return err
		}
	}
	for _, m := range u.Meals {
		date := s.now().AddDate(0, 0, -m.DaysAgo)
		if _, err := s.diet.Add(ctx, userID, service.DietInput{
			FoodName: m.Food,
			Calories: m.Calories,
			MealType: m.MealType,
			Date:     &date,
		}); err != nil {
			return err
		}
	}
	return nil
}
