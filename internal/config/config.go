// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Configuration defaults for training and the model hyperparameters.
const (
	DefaultSeed           = 42
	DefaultTestFraction   = 0.3
	DefaultSMOTENeighbors = 5

	DefaultKNNNeighbors = 5

	DefaultForestTrees = 100
	DefaultForestDepth = 8

	DefaultBoostRounds       = 400
	DefaultBoostDepth        = 6
	DefaultBoostLearningRate = 0.05
)

// SetDefaults registers every configuration default with viper.
func SetDefaults() {
	viper.SetDefault("data.path", "dataset/bs140513_032310.csv")
	viper.SetDefault("database.path", "~/.local/share/fraudsight/artifacts.db")

	viper.SetDefault("training.seed", DefaultSeed)
	viper.SetDefault("training.test_fraction", DefaultTestFraction)
	viper.SetDefault("training.smote_neighbors", DefaultSMOTENeighbors)

	viper.SetDefault("models.knn.neighbors", DefaultKNNNeighbors)
	viper.SetDefault("models.forest.trees", DefaultForestTrees)
	viper.SetDefault("models.forest.depth", DefaultForestDepth)
	viper.SetDefault("models.boost.rounds", DefaultBoostRounds)
	viper.SetDefault("models.boost.depth", DefaultBoostDepth)
	viper.SetDefault("models.boost.learning_rate", DefaultBoostLearningRate)
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
