package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"voiceover-studio/internal/config"
	pg "voiceover-studio/internal/infra/db/postgres"
	"voiceover-studio/internal/infra/logging"
	"voiceover-studio/internal/usecase"
)

// Seeds a demo owner with a few draft voiceovers and a pending collaborator
// invite, so the approval/claim flow can be exercised right away.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	logger := logging.New(cfg.Log, true)
	userRepo := pg.NewUserRepo(pool)
	voiceoverRepo := pg.NewVoiceoverRepo(pool)
	collaboratorRepo := pg.NewCollaboratorRepo(pool)

	collaboratorUC := usecase.NewCollaboratorUseCase(collaboratorRepo, voiceoverRepo, userRepo, logger)
	voiceoverUC := usecase.NewVoiceoverUseCase(voiceoverRepo, collaboratorRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo, collaboratorUC, logger)

	owner, err := userUC.Register(ctx, "owner@example.com", "demo-owner")
	if err != nil {
		log.Fatalf("register owner: %v", err)
	}
	fmt.Printf("owner: %s (%s)\n", owner.Username, owner.ID)

	// If the owner already has voiceovers, do nothing.
	existing, err := voiceoverUC.List(ctx, owner.ID)
	if err != nil {
		log.Fatalf("list voiceovers: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d voiceovers already present. No changes.\n", len(existing))
		return
	}

	seed := []struct {
		Title string
		Text  string
	}{
		{"Morning update", "Good morning! Here is everything you need to know today."},
		{"Product walkthrough", "Welcome to the walkthrough. Let's start with the dashboard."},
		{"", ""}, // draft without text, cannot be generated yet
	}

	for _, s := range seed {
		v, err := voiceoverUC.Create(ctx, owner.ID, s.Title)
		if err != nil {
			log.Fatalf("create voiceover %q: %v", s.Title, err)
		}
		if s.Text != "" {
			text := s.Text
			if _, err := voiceoverUC.Update(ctx, v.ID, owner.ID, usecase.VoiceoverUpdate{Text: &text}); err != nil {
				log.Fatalf("set text on %q: %v", v.Title, err)
			}
		}
		fmt.Printf("seeded: %s (id=%s, status=%s)\n", v.Title, v.ID, v.Status)
	}

	// Pending invite: claimed automatically when this email registers.
	first, err := voiceoverUC.List(ctx, owner.ID)
	if err != nil {
		log.Fatalf("list voiceovers: %v", err)
	}
	col, err := collaboratorUC.Add(ctx, first[0].ID, owner.ID, "reviewer@example.com")
	if err != nil {
		log.Fatalf("add collaborator: %v", err)
	}
	fmt.Printf("seeded invite: %s on voiceover %s (bound=%v)\n", col.Email, col.VoiceoverID, col.IsBound())

	fmt.Println("✅ Seeding complete.")
}
