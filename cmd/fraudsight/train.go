package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fraudsight/fraudsight/internal/classifier"
	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/fraudsight/fraudsight/internal/pipeline"
	"github.com/fraudsight/fraudsight/internal/report"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train fraud classifiers and persist the artifacts",
		Long: `Run the preprocessing pipeline over the raw transaction log, fit the
classifiers against the balanced training split, and persist every artifact
the report command needs: the fitted models, the held-out test split, the
feature column list, and the categorical encoding table.

Examples:
  fraudsight train
  fraudsight train --data dataset/bs140513_032310.csv
  fraudsight train --seed 7 --test-fraction 0.2`,
		RunE: runTrain,
	}

	cmd.Flags().Int64("seed", 0, "random seed for resampling and splitting (0 = configured default)")
	cmd.Flags().Float64("test-fraction", 0, "held-out fraction of the balanced set (0 = configured default)")

	_ = viper.BindPFlag("training.seed_override", cmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("training.test_fraction_override", cmd.Flags().Lookup("test-fraction"))

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	seed := viper.GetInt64("training.seed")
	if override := viper.GetInt64("training.seed_override"); override != 0 {
		seed = override
	}
	testFraction := viper.GetFloat64("training.test_fraction")
	if override := viper.GetFloat64("training.test_fraction_override"); override != 0 {
		testFraction = override
	}

	path, err := dataPath()
	if err != nil {
		return err
	}
	slog.Info("Preparing training data", "data", path, "seed", seed, "test_fraction", testFraction)

	split, encoder, err := pipeline.Prepare(path, testFraction, seed, pipeline.Options{
		Neighbors: viper.GetInt("training.smote_neighbors"),
	})
	if err != nil {
		return common.NewUserError("preprocessing failed; check the --data CSV", err)
	}

	trainRows, _ := split.TrainX.Dims()
	testRows, _ := split.TestX.Dims()
	slog.Info("Prepared balanced split", "train_rows", trainRows, "test_rows", testRows,
		"features", len(split.Columns))

	models := map[string]classifier.Classifier{
		"K-Neighbors Classifier": classifier.NewKNN(
			viper.GetInt("models.knn.neighbors")),
		"Random Forest Classifier": classifier.NewForest(
			viper.GetInt("models.forest.trees"),
			viper.GetInt("models.forest.depth"),
			seed),
		"Gradient Boosting Classifier": classifier.NewBoost(
			viper.GetInt("models.boost.rounds"),
			viper.GetInt("models.boost.depth"),
			viper.GetFloat64("models.boost.learning_rate"),
			seed),
	}
	order := []string{"K-Neighbors Classifier", "Random Forest Classifier", "Gradient Boosting Classifier"}

	store, err := initStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open artifact store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close artifact store", "error", closeErr)
		}
	}()

	bar := progressbar.NewOptions(len(order),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Fitting classifiers...[reset]"),
	)

	for _, name := range order {
		clf := models[name]
		slog.Info("Fitting model", "model", name)
		if fitErr := clf.Fit(split.TrainX, split.TrainY); fitErr != nil {
			return fmt.Errorf("fitting %q failed: %w", name, fitErr)
		}
		if saveErr := store.SaveModel(ctx, name, clf); saveErr != nil {
			return fmt.Errorf("persisting %q failed: %w", name, saveErr)
		}
		_ = bar.Add(1)
	}
	fmt.Fprintln(os.Stderr)

	if err := store.SaveMatrix(ctx, report.ArtifactTestFeatures, split.TestX); err != nil {
		return fmt.Errorf("persisting test features failed: %w", err)
	}
	if err := store.SaveVector(ctx, report.ArtifactTestTarget, split.TestY); err != nil {
		return fmt.Errorf("persisting test target failed: %w", err)
	}
	if err := store.SaveColumns(ctx, report.ArtifactColumns, split.Columns); err != nil {
		return fmt.Errorf("persisting feature columns failed: %w", err)
	}
	if err := store.SaveEncoder(ctx, report.ArtifactEncoder, encoder); err != nil {
		return fmt.Errorf("persisting encoder failed: %w", err)
	}

	slog.Info("Training complete", "models", len(order))
	return nil
}
