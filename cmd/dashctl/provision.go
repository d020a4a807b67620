package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jinhae8971/stock-dashboard/pkg/config"
	"github.com/jinhae8971/stock-dashboard/pkg/git"
	"github.com/jinhae8971/stock-dashboard/pkg/github"
	"github.com/jinhae8971/stock-dashboard/pkg/preflight"
	"github.com/jinhae8971/stock-dashboard/pkg/provision"
	"github.com/spf13/cobra"
)

var (
	provConfigPath string
	provContentDir string
	provOwner      string
	provRepo       string
	provPrivate    bool
	provCleanSlate bool
	provNoSecret   bool
	provNoDispatch bool
	provSkipChecks bool
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the dashboard repository, push content, and wire Pages",
	Long: `Provision runs the full setup sequence against GitHub:

  1. verify the token
  2. create the repository if it does not exist
  3. push the content directory to the default branch
  4. enable GitHub Pages
  5. store the Anthropic API key as an Actions secret
  6. dispatch the data-update workflow

The run is idempotent: re-running against an existing, configured repository
changes nothing. Steps 4-6 degrade to warnings with a manual-action hint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(provConfigPath)
		if err != nil {
			return err
		}
		if provOwner != "" {
			cfg.Owner = provOwner
		}
		if provRepo != "" {
			cfg.Repo = provRepo
		}

		checker := preflight.NewChecker(preflight.Config{
			Skip:        provSkipChecks,
			ContentDir:  provContentDir,
			DataPath:    cfg.DataPath,
			CheckToken:  true,
			CheckAPIKey: !provNoSecret,
		})
		if err := checker.Run(context.Background()); err != nil {
			return err
		}

		token, err := config.TokenChain().Credential()
		if err != nil {
			return fmt.Errorf("failed to resolve GitHub token: %w", err)
		}
		if token == "" {
			return fmt.Errorf("a GitHub token is required; set %s", config.EnvGitHubToken)
		}

		req := provision.Request{
			Token: token,
			Repo: github.RepoSpec{
				Owner:       cfg.Owner,
				Name:        cfg.Repo,
				Private:     provPrivate || cfg.Private,
				Description: cfg.Description,
			},
			Pages: github.PagesSpec{
				Branch: cfg.Branch,
				Path:   cfg.PagesPath,
			},
			ContentDir:  provContentDir,
			CleanSlate:  provCleanSlate,
			AuthorName:  cfg.AuthorName,
			AuthorEmail: cfg.AuthorEmail,
		}

		if !provNoSecret {
			apiKey, err := config.SecretChain().Credential()
			if err != nil {
				return fmt.Errorf("failed to resolve API key: %w", err)
			}
			req.Secret = &provision.SecretEntry{Name: cfg.SecretName, Value: apiKey}
		}
		if !provNoDispatch {
			req.Dispatch = &provision.DispatchRequest{Workflow: cfg.Workflow, Ref: cfg.Branch}
		}

		client, err := github.NewClient(token)
		if err != nil {
			return err
		}

		result, runErr := provision.New(client, git.NewSyncer()).Provision(context.Background(), req)
		printResult(result)
		if runErr != nil {
			os.Exit(1)
		}
		return nil
	},
}

func printResult(result *provision.Result) {
	fmt.Println()
	for _, step := range result.Steps {
		line := fmt.Sprintf("  %-10s %s", step.Step, step.Status)
		if step.Note != "" {
			line += "  " + step.Note
		}
		fmt.Println(line)
		if step.Hint != "" {
			fmt.Printf("             hint: %s\n", step.Hint)
		}
	}
	fmt.Println()
	if result.CommitHash != "" {
		fmt.Printf("Site:    %s\n", result.SiteURL)
		fmt.Printf("Actions: %s\n", result.ActionsURL)
	}
}

func init() {
	provisionCmd.Flags().StringVarP(&provConfigPath, "config", "c", "dashboard.yaml", "Path to config file (optional)")
	provisionCmd.Flags().StringVarP(&provContentDir, "dir", "d", ".", "Content directory to publish")
	provisionCmd.Flags().StringVar(&provOwner, "owner", "", "Repository owner (overrides config)")
	provisionCmd.Flags().StringVar(&provRepo, "repo", "", "Repository name (overrides config)")
	provisionCmd.Flags().BoolVar(&provPrivate, "private", false, "Create the repository as private")
	provisionCmd.Flags().BoolVar(&provCleanSlate, "clean-slate", false, "Discard local git history before pushing")
	provisionCmd.Flags().BoolVar(&provNoSecret, "no-secret", false, "Skip storing the API key secret")
	provisionCmd.Flags().BoolVar(&provNoDispatch, "no-dispatch", false, "Skip triggering the update workflow")
	provisionCmd.Flags().BoolVar(&provSkipChecks, "skip-checks", false, "Skip preflight checks")
	rootCmd.AddCommand(provisionCmd)
}
