package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	clierrors "github.com/carecompass/funnelkit/internal/errors"
)

func newPatientCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Manage patient profiles",
	}
	cmd.GroupID = GroupRuntime
	cmd.AddCommand(newPatientCreateCmd(a))
	return cmd
}

func newPatientCreateCmd(a *app) *cobra.Command {
	var patientID string
	cmd := &cobra.Command{
		Use:   "create <user-id>",
		Short: "Create the patient profile of an authenticated user",
		Long: `Create the patient profile of an authenticated user.

Only users with a patient profile can be given version overrides.`,
		Example: `  funnelkit patient create user-42
  funnelkit patient create user-42 --id patient-0042`,
		Args: argsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if patientID == "" {
				patientID = uuid.NewString()
			}
			userID := args[0]
			if err := s.CreatePatientProfile(cmd.Context(), patientID, userID); err != nil {
				return err
			}
			a.logger.Info("Created patient profile", zap.String("user_id", userID), zap.String("patient_id", patientID))

			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				return writeJSON(out, map[string]string{"patientId": patientID, "userId": userID})
			}
			fmt.Fprintf(out, "%s Created patient %s for user %s\n", newColors().Green("✓"), patientID, userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&patientID, "id", "", "Patient id (a random UUID when empty)")
	return cmd
}

func newOverrideCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Pin a patient to a specific funnel version",
		Long: `Pin a patient to a specific funnel version.

An override takes precedence over the catalog default whenever the user is
authenticated and has a patient profile.`,
	}
	cmd.GroupID = GroupRuntime
	cmd.AddCommand(newOverrideSetCmd(a), newOverrideClearCmd(a))
	return cmd
}

func newOverrideSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "set <user-id> <slug> <version-id>",
		Short:   "Pin a user's patient profile to a version",
		Example: `  funnelkit override set user-42 stress-assessment 7f0c2a2e-4f7e-4d55-9d0b-5b1c9a0b6c11`,
		Args:    argsWithUsage(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, slug, versionID := args[0], args[1], args[2]
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			patientID, err := s.GetPatientProfileID(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if patientID == "" {
				return clierrors.PatientNotFound(userID)
			}
			if err := s.SetVersionOverride(cmd.Context(), patientID, slug, versionID); err != nil {
				return err
			}
			a.logger.Info("Set version override",
				zap.String("patient_id", patientID),
				zap.String("slug", slug),
				zap.String("version_id", versionID))

			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				return writeJSON(out, map[string]string{
					"patientId": patientID, "slug": slug, "activeVersionId": versionID,
				})
			}
			fmt.Fprintf(out, "%s %s now resolves %s to %s\n", newColors().Green("✓"), userID, slug, versionID)
			return nil
		},
	}
}

func newOverrideClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <user-id> <slug>",
		Short: "Remove a user's override so the catalog default applies",
		Args:  argsWithUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, slug := args[0], args[1]
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			patientID, err := s.GetPatientProfileID(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if patientID == "" {
				return clierrors.PatientNotFound(userID)
			}
			if err := s.ClearVersionOverride(cmd.Context(), patientID, slug); err != nil {
				return err
			}
			a.logger.Info("Cleared version override", zap.String("patient_id", patientID), zap.String("slug", slug))

			out := cmd.OutOrStdout()
			if a.jsonOutput(out) {
				return writeJSON(out, map[string]string{"patientId": patientID, "slug": slug})
			}
			fmt.Fprintf(out, "%s %s now resolves %s to the catalog default\n", newColors().Green("✓"), userID, slug)
			return nil
		},
	}
}
