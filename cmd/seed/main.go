package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/MeldryckSAID/NovaHelpBack/internal/models"
	"github.com/MeldryckSAID/NovaHelpBack/internal/repository"
	"github.com/MeldryckSAID/NovaHelpBack/pkg/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type demoHelper struct {
	email       string
	fullName    string
	avatar      string
	description string
	specialties []string
	presence    string
	slots       []repository.CreateTimeSlotInput
}

var demoHelpers = []demoHelper{
	{
		email:       "jeremie@novahelp.dev",
		fullName:    "Jeremie Malcom",
		avatar:      "avatar-1",
		description: "I build an action plan with you so you can organise the way you work. Maths and code welcome.",
		specialties: []string{"maths", "development"},
		presence:    "available",
		slots: []repository.CreateTimeSlotInput{
			{Weekday: "wednesday", StartTime: "19:00", EndTime: "22:00", Recurring: true},
			{Weekday: "saturday", StartTime: "19:00", EndTime: "22:00", Recurring: true},
		},
	},
	{
		email:       "david@novahelp.dev",
		fullName:    "David Martin",
		avatar:      "avatar-2",
		description: "Full-stack developer with 5 years of experience. JavaScript, React, Node.js and more, with a hands-on, project-driven approach.",
		specialties: []string{"programming", "javascript"},
		presence:    "available",
		slots: []repository.CreateTimeSlotInput{
			{Weekday: "tuesday", StartTime: "14:00", EndTime: "18:00", Recurring: true},
			{Weekday: "friday", StartTime: "14:00", EndTime: "18:00", Recurring: true},
		},
	},
	{
		email:       "mike@novahelp.dev",
		fullName:    "Mike Fontaine",
		avatar:      "avatar-3",
		description: "Language teacher offering English, Spanish and French lessons. Interactive method tailored to your needs.",
		specialties: []string{"languages", "english", "spanish"},
		presence:    "busy",
		slots: []repository.CreateTimeSlotInput{
			{Weekday: "monday", StartTime: "10:00", EndTime: "12:00", Recurring: true},
		},
	},
	{
		email:       "sarah@novahelp.dev",
		fullName:    "Sarah Benali",
		avatar:      "avatar-4",
		description: "Physics PhD student helping with maths, physics and chemistry from middle school to university level.",
		specialties: []string{"sciences", "maths", "physics"},
		presence:    "available",
		slots: []repository.CreateTimeSlotInput{
			{Weekday: "thursday", StartTime: "16:00", EndTime: "20:00", Recurring: true},
			{Weekday: "sunday", StartTime: "16:00", EndTime: "20:00", Recurring: true},
		},
	},
	{
		email:       "emma@novahelp.dev",
		fullName:    "Emma Laurent",
		avatar:      "avatar-5",
		description: "Visual arts teacher. Drawing, painting and art history for every level.",
		specialties: []string{"arts"},
		presence:    "available",
		slots: []repository.CreateTimeSlotInput{
			{Weekday: "wednesday", StartTime: "15:00", EndTime: "18:00", Recurring: true},
		},
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "novahelp-demo"
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbUrl)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := seed(ctx, pool, password); err != nil {
		log.Fatal(err)
	}
	log.Println("Seed successful")
}

func seed(ctx context.Context, pool *pgxpool.Pool, password string) error {
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	for _, helper := range demoHelpers {
		if err := seedHelper(ctx, pool, helper, passwordHash); err != nil {
			return err
		}
	}
	return nil
}

func seedHelper(ctx context.Context, pool *pgxpool.Pool, helper demoHelper, passwordHash string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	userRepo := repository.NewUserRepository(tx)
	if _, err := userRepo.GetByEmail(ctx, helper.email); err == nil {
		log.Printf("Helper %s already exists, skipping", helper.email)
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	user := &models.User{
		Email:        helper.email,
		PasswordHash: passwordHash,
		Role:         "helper",
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		return err
	}

	profileRepo := repository.NewHelperProfileRepository(tx)
	if err := profileRepo.CreateEmpty(ctx, user.ID); err != nil {
		return err
	}
	if _, err := profileRepo.UpdateOnboarding(ctx, user.ID, repository.HelperOnboardingInput{
		FullName:    helper.fullName,
		Avatar:      helper.avatar,
		Description: helper.description,
		Specialties: helper.specialties,
	}); err != nil {
		return err
	}
	if _, err := profileRepo.UpdatePresence(ctx, user.ID, helper.presence); err != nil {
		return err
	}

	slotRepo := repository.NewTimeSlotRepository(tx)
	for _, slot := range helper.slots {
		slot.HelperID = user.ID
		if _, err := slotRepo.Create(ctx, slot); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Printf("Seeded helper %s (%s)", helper.fullName, helper.email)
	return nil
}
