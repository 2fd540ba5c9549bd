// seed inserts development sample data for local testing.
// Idempotent: existing rows are left untouched.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/apperr"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/config"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/db"
	identitydomain "github.com/Sepehr-khosravi/mazeh-backend/internal/identity/domain"
	identityservice "github.com/Sepehr-khosravi/mazeh-backend/internal/identity/service"
	recipedomain "github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/domain"
	reciperepo "github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/repository"
	recipeservice "github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/service"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/security"
	userrepo "github.com/Sepehr-khosravi/mazeh-backend/internal/user/repository"
)

const (
	devEmail    = "dev@example.com"
	devUsername = "dev"
	devPassword = "password123"
)

func main() {
	if err := newSeedCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "seed",
		Short:        "Insert development sample data",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			return seed(ctx, cmd)
		},
	}
}

func seed(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL is not set")
	}
	pool, err := db.Open(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: 2, MinConns: 0, Retries: 3})
	if err != nil {
		return err
	}
	defer pool.Close()

	tokens, err := security.NewTokenProvider([]byte(cfg.JWTKey), cfg.JWTIssuer, cfg.TokenTTL())
	if err != nil {
		return err
	}
	auth := identityservice.NewAuthService(userrepo.NewPostgresRepository(pool), security.NewHasher(cfg.BcryptCost), tokens)
	_, err = auth.Register(ctx, identitydomain.Credentials{Email: devEmail, Username: devUsername, Password: devPassword})
	switch {
	case errors.Is(err, apperr.ErrAlreadyExists):
		cmd.Printf("user %s already exists, skipping\n", devEmail)
	case err != nil:
		return oops.Code("SEED_USER_FAILED").Wrap(err)
	default:
		cmd.Printf("created user %s (password %s)\n", devEmail, devPassword)
	}

	recipes := recipeservice.NewRecipeService(reciperepo.NewPostgresRepository(pool), nil, slog.Default())
	for _, r := range sampleRecipes() {
		_, err := recipes.Create(ctx, &r)
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			cmd.Printf("recipe %q already exists, skipping\n", r.Name)
		case err != nil:
			return oops.Code("SEED_RECIPE_FAILED").With("name", r.Name).Wrap(err)
		default:
			cmd.Printf("created recipe %q\n", r.Name)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
	return nil
}

func sampleRecipes() []recipedomain.Recipe {
	return []recipedomain.Recipe{
		{
			Name:        "Ghormeh Sabzi",
			Time:        180,
			Category:    "stew",
			Nationality: "iranian",
			Difficulty:  "hard",
			Description: "Herb stew with kidney beans, dried lime and lamb.",
			Meal:        "lunch",
			Ingredients: []recipedomain.Ingredient{
				{Name: "lamb", Amount: "500g"},
				{Name: "mixed herbs", Amount: "4 cups"},
				{Name: "kidney beans", Amount: "1 cup"},
				{Name: "dried lime", Amount: "4"},
			},
			Steps: []recipedomain.Step{
				{Order: 1, Description: "Fry the herbs until dark green."},
				{Order: 2, Description: "Brown the meat with onion and turmeric."},
				{Order: 3, Description: "Simmer everything with beans and lime for two hours."},
			},
		},
		{
			Name:        "Kuku Sabzi",
			Time:        45,
			Category:    "frittata",
			Nationality: "iranian",
			Difficulty:  "easy",
			Description: "Baked herb frittata with walnuts and barberries.",
			Meal:        "dinner",
			Gallery:     []recipedomain.GalleryImage{{URL: "https://images.example.com/kuku.jpg"}},
			Ingredients: []recipedomain.Ingredient{
				{Name: "eggs", Amount: "6"},
				{Name: "chopped herbs", Amount: "3 cups"},
				{Name: "walnuts", Amount: "1/4 cup"},
			},
			Steps: []recipedomain.Step{
				{Order: 1, Description: "Whisk eggs with herbs and spices."},
				{Order: 2, Description: "Bake at 180C for 30 minutes."},
			},
		},
	}
}
