package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/american-embedded/pcmgen/internal/archiver"
	"github.com/american-embedded/pcmgen/internal/builder"
	"github.com/american-embedded/pcmgen/internal/icons"
	"github.com/american-embedded/pcmgen/internal/models"
	"github.com/american-embedded/pcmgen/internal/scanner"
	"github.com/american-embedded/pcmgen/internal/signer"
	"github.com/american-embedded/pcmgen/internal/utils"
	"github.com/american-embedded/pcmgen/internal/validator"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	var config models.BuildConfig
	var maintainerEmail, maintainerGithub string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the repository from source packages",
		Long: `Discovers packages under <repo-root>/packages, validates their
metadata.json descriptors, creates deterministic ZIP archives and emits
repository.json, packages.json and resources.zip into the output
directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maintainerEmail != "" || maintainerGithub != "" {
				config.Maintainer.Contact = &models.Contact{
					Email:  maintainerEmail,
					Github: maintainerGithub,
				}
			}

			// Validate configuration
			if err := validateConfig(&config); err != nil {
				return err
			}

			logrus.Info("Starting repository build...")
			logrus.Debugf("Configuration: %+v", config)

			return runBuild(cmd.Context(), &config)
		},
	}

	// Input/Output flags
	cmd.Flags().StringVarP(&config.RepoRoot, "repo-root", "r", ".", "Repository root directory")
	cmd.Flags().StringVarP(&config.OutputDir, "output-dir", "o", "output", "Output directory")

	// Published URL flags
	cmd.Flags().StringVarP(&config.BaseURL, "base-url", "b", "", "Base URL for package ZIP downloads (e.g. GitHub Releases URL)")
	cmd.Flags().StringVarP(&config.MetadataURL, "metadata-url", "m", "", "Base URL for metadata files (defaults to base-url)")
	cmd.MarkFlagRequired("base-url")

	// Repository identity flags
	cmd.Flags().StringVar(&config.RepoName, "name", "American Embedded KiCad Repository", "Repository display name")
	cmd.Flags().StringVar(&config.Maintainer.Name, "maintainer-name", "American Embedded", "Repository maintainer name")
	cmd.Flags().StringVar(&maintainerEmail, "maintainer-email", "build@amemb.com", "Repository maintainer email")
	cmd.Flags().StringVar(&maintainerGithub, "maintainer-github", "https://github.com/American-Embedded", "Repository maintainer GitHub URL")

	// Policy flags
	cmd.Flags().BoolVar(&config.Strict, "strict", false, "Treat per-package validation failures as fatal")
	cmd.Flags().BoolVar(&config.CreateIcons, "create-icons", false, "Create placeholder icons for packages missing them")

	// Signing flags
	cmd.Flags().StringVarP(&config.GPGKeyPath, "gpg-key", "k", "", "Path to GPG private key for signing repository.json")
	cmd.Flags().StringVarP(&config.GPGPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase")

	return cmd
}

func validateConfig(config *models.BuildConfig) error {
	if config.OutputDir == "" {
		return &models.BuildError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("output-dir is required"),
		}
	}

	info, err := os.Stat(config.RepoRoot)
	if err != nil || !info.IsDir() {
		return &models.BuildError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("repo-root %q is not a directory", config.RepoRoot),
		}
	}

	if err := checkURL(config.BaseURL, "base-url"); err != nil {
		return err
	}

	if config.MetadataURL == "" {
		config.MetadataURL = config.BaseURL
	} else if err := checkURL(config.MetadataURL, "metadata-url"); err != nil {
		return err
	}

	return nil
}

func checkURL(raw, flag string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &models.BuildError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("%s %q is not a valid absolute URL", flag, raw),
		}
	}
	return nil
}

func runBuild(ctx context.Context, config *models.BuildConfig) error {
	// Step 1: Optionally create placeholder icons
	if config.CreateIcons {
		if err := icons.CreatePlaceholders(config.RepoRoot); err != nil {
			return &models.BuildError{Type: models.ErrFileOp, Err: err}
		}
	}

	// Step 2: Scan for packages
	logrus.Infof("Scanning repository: %s", config.RepoRoot)
	sc := scanner.NewFileSystemScanner()
	scannedPackages, err := sc.Scan(ctx, config.RepoRoot)
	if err != nil {
		return &models.BuildError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to scan repository: %w", err),
		}
	}

	if len(scannedPackages) == 0 {
		return &models.BuildError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("no packages found under %s", config.RepoRoot),
		}
	}

	// Step 3: Validate and archive each package
	val, err := validator.New(config.RepoRoot)
	if err != nil {
		return &models.BuildError{Type: models.ErrSchema, Err: err}
	}

	idx := builder.New(config)
	releasesDir := filepath.Join(config.OutputDir, "releases")
	if err := utils.EnsureDir(releasesDir); err != nil {
		return &models.BuildError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to create %s: %w", releasesDir, err),
		}
	}

	var validated []*models.PackageDescriptor
	var failures *multierror.Error
	seen := make(map[string]string)

	for _, scanned := range scannedPackages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		logrus.Infof("Processing: %s", scanned.Dir)

		desc, err := val.Validate(scanned)
		if err != nil {
			logrus.Errorf("Validation failed for %s: %v", scanned.Dir, err)
			failures = multierror.Append(failures, err)
			continue
		}

		if prev, ok := seen[desc.Identifier]; ok {
			err := &models.BuildError{
				Type:    models.ErrSchema,
				Package: desc.Identifier,
				Err:     fmt.Errorf("duplicate identifier, already declared by %s", prev),
			}
			logrus.Errorf("Validation failed for %s: %v", scanned.Dir, err)
			failures = multierror.Append(failures, err)
			continue
		}
		seen[desc.Identifier] = scanned.Dir

		record, err := archiver.Archive(desc, builder.Latest(desc.Versions).Version, releasesDir)
		if err != nil {
			logrus.Errorf("Archiving failed for %s: %v", desc.Identifier, err)
			failures = multierror.Append(failures, err)
			continue
		}

		idx.Stamp(desc, record)
		validated = append(validated, desc)
		logrus.Infof("Packaged %s -> %s", desc.Identifier, record.ZipName)
	}

	if len(validated) == 0 {
		return &models.BuildError{
			Type: models.ErrSchema,
			Err:  fmt.Errorf("no packages were successfully processed"),
		}
	}

	// Step 4: Emit the repository documents
	if err := writeDocuments(config, idx, validated); err != nil {
		return err
	}

	// Step 5: Report the per-package summary
	failed := failures.ErrorOrNil()
	if failed != nil {
		logrus.Warnf("Build finished with %d package failure(s):", len(failures.Errors))
		for _, e := range failures.Errors {
			logrus.Warnf("  %v", e)
		}
		if config.Strict {
			return &models.BuildError{
				Type: models.ErrSchema,
				Err:  fmt.Errorf("strict mode: %w", failed),
			}
		}
	}

	logrus.Infof("Repository build completed successfully (%d packages)", len(validated))
	logrus.Infof("Output directory: %s", config.OutputDir)

	return nil
}

// writeDocuments emits resources.zip, packages.json and repository.json
// (plus the optional detached signature) into the output directory.
func writeDocuments(config *models.BuildConfig, idx *builder.Builder, validated []*models.PackageDescriptor) error {
	resourcesPath := filepath.Join(config.OutputDir, "resources.zip")
	if err := archiver.BuildResources(validated, resourcesPath); err != nil {
		return err
	}
	resourcesSum, err := utils.CalculateChecksum(resourcesPath)
	if err != nil {
		return &models.BuildError{Type: models.ErrFileOp, Err: err}
	}
	logrus.Infof("Generated: resources.zip (SHA256: %s...)", resourcesSum.SHA256[:16])

	catalog, err := idx.BuildCatalog(validated)
	if err != nil {
		return &models.BuildError{Type: models.ErrIndexGen, Err: err}
	}
	catalogPath := filepath.Join(config.OutputDir, "packages.json")
	if err := utils.WriteFile(catalogPath, catalog, 0644); err != nil {
		return &models.BuildError{Type: models.ErrFileOp, Err: err}
	}
	catalogSum, err := utils.CalculateChecksum(catalogPath)
	if err != nil {
		return &models.BuildError{Type: models.ErrFileOp, Err: err}
	}
	logrus.Infof("Generated: packages.json (SHA256: %s...)", catalogSum.SHA256[:16])

	index, err := idx.BuildIndex(validated, catalogSum, resourcesSum)
	if err != nil {
		return &models.BuildError{Type: models.ErrIndexGen, Err: err}
	}
	indexPath := filepath.Join(config.OutputDir, "repository.json")
	if err := utils.WriteFile(indexPath, index, 0644); err != nil {
		return &models.BuildError{Type: models.ErrFileOp, Err: err}
	}
	logrus.Info("Generated: repository.json")

	if config.GPGKeyPath != "" {
		if err := signIndex(config, index); err != nil {
			return err
		}
	}

	return nil
}

func signIndex(config *models.BuildConfig, index []byte) error {
	gpgSigner, err := signer.NewGPGSigner(config.GPGKeyPath, config.GPGPassphrase)
	if err != nil {
		return &models.BuildError{
			Type: models.ErrSigning,
			Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
		}
	}
	logrus.Info("GPG signer initialized")

	sig, err := gpgSigner.SignDetached(index)
	if err != nil {
		return &models.BuildError{Type: models.ErrSigning, Err: err}
	}
	sigPath := filepath.Join(config.OutputDir, "repository.json.asc")
	if err := utils.WriteFile(sigPath, sig, 0644); err != nil {
		return &models.BuildError{Type: models.ErrFileOp, Err: err}
	}

	pubKey, err := gpgSigner.GetPublicKey()
	if err != nil {
		return &models.BuildError{Type: models.ErrSigning, Err: err}
	}
	pubPath := filepath.Join(config.OutputDir, "pcmgen.pub")
	if err := utils.WriteFile(pubPath, pubKey, 0644); err != nil {
		return &models.BuildError{Type: models.ErrFileOp, Err: err}
	}

	logrus.Info("Repository index signed successfully")
	return nil
}
