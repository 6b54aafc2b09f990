package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"reviflow/cmd/seed_initial_data/internal/seedmodels"
	"reviflow/internal/config"
	"reviflow/internal/database"
	"reviflow/internal/domain"
	"reviflow/internal/logger"
	"reviflow/internal/repository"
	"reviflow/internal/util"

	"go.uber.org/zap"
)

const (
	defaultSeedFilePath = "configs/seed_data/demo_family.json"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not initialized yet
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	seedFilePath := defaultSeedFilePath
	if len(os.Args) > 1 {
		seedFilePath = os.Args[1]
	}

	log.Info("Starting demo data seeding process...")
	db, err := database.NewSQLXDB(cfg.DB, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	families, err := loadSeedFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to load seed file", zap.String("path", seedFilePath), zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("families_loaded", len(families)))

	s := &seeder{
		users:     repository.NewSQLXUserRepository(db),
		learners:  repository.NewSQLXLearnerRepository(db),
		revisions: repository.NewSQLXRevisionRepository(db),
		tx:        repository.NewTransactionManagerAdapter(db),
		log:       log,
	}
	for _, family := range families {
		if err := s.seedFamily(ctx, family); err != nil {
			log.Error("Error seeding family, transaction rolled back", zap.String("email", family.Email), zap.Error(err))
		}
	}
	log.Info("Demo data seeding process completed.")
}

func loadSeedFile(path string) ([]seedmodels.SeedFamily, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var families []seedmodels.SeedFamily
	if err := json.Unmarshal(raw, &families); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed data: %w", err)
	}
	return families, nil
}

type seeder struct {
	users     domain.UserRepository
	learners  domain.LearnerRepository
	revisions domain.RevisionRepository
	tx        domain.TransactionManager
	log       *zap.Logger
}

// seedFamily creates a parent, its children and their lessons in one
// transaction. A family whose parent email already exists is skipped.
func (s *seeder) seedFamily(ctx context.Context, family seedmodels.SeedFamily) error {
	s.log.Info("Processing family", zap.String("email", family.Email))

	existing, err := s.users.GetUserByEmail(ctx, family.Email)
	if err != nil {
		return fmt.Errorf("error checking parent %s: %w", family.Email, err)
	}
	if existing != nil {
		s.log.Info("Family exists, skipping.", zap.String("id", existing.ID), zap.String("email", existing.Email))
		return nil
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		parent, err := s.createUser(ctx, &domain.User{
			Email:     family.Email,
			FirstName: family.FirstName,
			Role:      domain.RoleParent,
		}, family.Password)
		if err != nil {
			return err
		}
		if family.ParentalPIN != "" {
			pinHash, err := util.HashSecret(family.ParentalPIN)
			if err != nil {
				return fmt.Errorf("failed to hash parental pin: %w", err)
			}
			parent.ParentalPINHash = pinHash
			if err := s.users.UpdateUser(ctx, parent); err != nil {
				return fmt.Errorf("failed to store parental pin: %w", err)
			}
		}
		s.log.Info("Created parent.", zap.String("id", parent.ID))

		for _, sc := range family.Children {
			if err := s.seedChild(ctx, parent, sc); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *seeder) seedChild(ctx context.Context, parent *domain.User, sc seedmodels.SeedChild) error {
	password := sc.Password
	if password == "" {
		password = domain.DefaultLearnerPassword
	}
	child, err := s.createUser(ctx, &domain.User{
		Email:     domain.LearnerEmail(sc.Username),
		Username:  sc.Username,
		FirstName: sc.FirstName,
		Role:      domain.RoleLearner,
		ParentID:  parent.ID,
	}, password)
	if err != nil {
		return err
	}

	profile := &domain.LearnerProfile{UserID: child.ID, FirstName: child.FirstName, Level: 1}
	if err := s.learners.CreateProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to create learner profile for %s: %w", sc.Username, err)
	}
	s.log.Info("Created learner.", zap.String("username", sc.Username), zap.String("learner_id", profile.ID))

	for _, sr := range sc.Revisions {
		quiz := sr.Quiz
		if quiz.Topic == "" {
			quiz.Topic = sr.Topic
		}
		rev := &domain.Revision{
			UserID:        parent.ID,
			LearnerID:     profile.ID,
			Topic:         sr.Topic,
			Subject:       sr.Subject,
			TextContent:   sr.TextContent,
			Synthesis:     sr.Synthesis,
			StudyTips:     sr.StudyTips,
			QuizData:      &quiz,
			Status:        domain.RevisionStatusNew,
			CurrentSeries: 1,
			TotalSeries:   domain.PlanQuiz(sr.TextContent).TotalSeries,
		}
		if err := s.revisions.CreateRevision(ctx, rev); err != nil {
			return fmt.Errorf("failed to save revision %q: %w", sr.Topic, err)
		}
		s.log.Info("Created revision.", zap.String("id", rev.ID), zap.String("topic", rev.Topic))
	}
	return nil
}

func (s *seeder) createUser(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	hashed, err := util.HashSecret(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.IsActive = true
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return user, nil
}
