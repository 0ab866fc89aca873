package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harentsoaR/simple-ehr/internal/config"
	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/services"
	"github.com/harentsoaR/simple-ehr/internal/session"
	"github.com/harentsoaR/simple-ehr/internal/store"
	"github.com/harentsoaR/simple-ehr/internal/utils"
)

// createDoctorCmd bootstraps a doctor account. Registering doctors over HTTP
// requires a signed-in doctor, so the first one is created here.
func createDoctorCmd() *cobra.Command {
	var name, email, password, designation string

	cmd := &cobra.Command{
		Use:   "create-doctor",
		Short: "Create a doctor account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			ctx := context.Background()

			client, db, err := openDatabase(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL, session.NewMemoryRevocations())
			auth := services.NewAuthService(store.NewCredentialStore(db, cfg.Mongo.Timeout), sessions, utils.DefaultHashCost, log)

			doctor, err := auth.RegisterDoctor(ctx, services.DoctorRegistration{
				Name:        name,
				Email:       email,
				Password:    password,
				Designation: models.Designation(designation),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created doctor %s (%s)\n", doctor.Email, doctor.ID.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "doctor's full name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().StringVar(&designation, "designation", "", "consultant, radiologist, pharmacist or lab")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
