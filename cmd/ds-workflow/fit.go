// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/ds-workflow/internal/algorithm"
	"github.com/pdiddy/ds-workflow/internal/dataset"
	"github.com/pdiddy/ds-workflow/internal/registry"
	"github.com/pdiddy/ds-workflow/pkg/types"
)

var fitCmd = &cobra.Command{
	Use:   "fit [dataset.csv]",
	Short: "Train a model and evaluate it on the test set",
	Long: `Fit splits the dataset, trains the selected model on the train set, and
evaluates it on the test set. Linear regression reports mean squared
error and R-squared; logistic regression and k-nearest neighbours report
accuracy; k-means reports test-set inertia. With --register the run is
recorded in the dataset registry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		labelsPath, _ := cmd.Flags().GetString("labels")
		target, _ := cmd.Flags().GetString("target")
		test, _ := cmd.Flags().GetFloat64("test")
		validate, _ := cmd.Flags().GetFloat64("validate")
		seed, _ := cmd.Flags().GetInt64("seed")
		register, _ := cmd.Flags().GetBool("register")

		fitCfg := cfg.Fit
		if cmd.Flags().Changed("model") || fitCfg.Model == "" {
			fitCfg.Model, _ = cmd.Flags().GetString("model")
		}
		fitCfg.Intercept, _ = cmd.Flags().GetBool("intercept")
		if cmd.Flags().Changed("learning-rate") {
			fitCfg.LearningRate, _ = cmd.Flags().GetFloat64("learning-rate")
		}
		if cmd.Flags().Changed("epochs") {
			fitCfg.Epochs, _ = cmd.Flags().GetInt("epochs")
		}
		if cmd.Flags().Changed("neighbors") {
			fitCfg.Neighbors, _ = cmd.Flags().GetInt("neighbors")
		}
		if cmd.Flags().Changed("clusters") {
			fitCfg.Clusters, _ = cmd.Flags().GetInt("clusters")
		}
		if !cmd.Flags().Changed("test") && cfg.Split.Test > 0 {
			test = cfg.Split.Test
		}
		if !cmd.Flags().Changed("seed") && cfg.Split.Seed != 0 {
			seed = cfg.Split.Seed
		}

		if target == "" {
			return fmt.Errorf("--target is required")
		}

		d, err := loadDataset(args[0], labelsPath, cfg.Dataset)
		if err != nil {
			return err
		}
		if err := d.SetTarget(target); err != nil {
			return err
		}
		if err := d.Split(test, validate, seed); err != nil {
			return err
		}

		trainX, trainY, features, err := algorithm.DesignMatrix(d, dataset.SetTrain)
		if err != nil {
			return err
		}
		testX, testY, _, err := algorithm.DesignMatrix(d, dataset.SetTest)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "fitting  %s on %d features\n", fitCfg.Model, len(features))

		metricName, metricValue, err := trainAndScore(fitCfg, seed, trainX, trainY, testX, testY)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %g\n", fitCfg.Model, metricName, metricValue)

		if register {
			store, err := registry.NewStore(cfg.Registry)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Register(cmd.Context(), d, "")
			if err != nil {
				return err
			}
			run, err := store.RecordRun(cmd.Context(), rec.ID, fitCfg.Model, metricName, metricValue)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "recorded run %s\n", run.ID)
		}
		return nil
	},
}

// trainAndScore trains the configured model on the train matrices and
// returns the evaluation metric measured on the test matrices.
func trainAndScore(cfg types.FitConfig, seed int64, trainX *mat.Dense, trainY []float64, testX *mat.Dense, testY []float64) (string, float64, error) {
	switch cfg.Model {
	case "linear":
		m := &algorithm.LinearRegression{Intercept: cfg.Intercept}
		if err := m.Fit(trainX, trainY); err != nil {
			return "", 0, err
		}
		preds, err := m.Predict(testX)
		if err != nil {
			return "", 0, err
		}
		mse, err := algorithm.MSE(testY, preds)
		if err != nil {
			return "", 0, err
		}
		return "mse", mse, nil

	case "logistic":
		m := &algorithm.LogisticRegression{LearningRate: cfg.LearningRate, Epochs: cfg.Epochs}
		if err := m.Fit(trainX, trainY); err != nil {
			return "", 0, err
		}
		preds, err := m.Classify(testX)
		if err != nil {
			return "", 0, err
		}
		acc, err := algorithm.Accuracy(testY, preds)
		if err != nil {
			return "", 0, err
		}
		return "accuracy", acc, nil

	case "knn":
		m := &algorithm.KNN{K: cfg.Neighbors}
		if err := m.Fit(trainX, trainY); err != nil {
			return "", 0, err
		}
		preds, err := m.Predict(testX)
		if err != nil {
			return "", 0, err
		}
		acc, err := algorithm.Accuracy(testY, preds)
		if err != nil {
			return "", 0, err
		}
		return "accuracy", acc, nil

	case "kmeans":
		m := &algorithm.KMeans{K: cfg.Clusters, Seed: seed}
		if err := m.Fit(trainX); err != nil {
			return "", 0, err
		}
		inertia, err := m.Inertia(testX)
		if err != nil {
			return "", 0, err
		}
		return "inertia", inertia, nil
	}
	return "", 0, fmt.Errorf("'%s' is not an accepted value for 'model'", cfg.Model)
}

func init() {
	fitCmd.Flags().String("labels", "", "YAML labels file to apply")
	fitCmd.Flags().String("target", "", "target column")
	fitCmd.Flags().String("model", "linear", "model: linear, logistic, knn, or kmeans")
	fitCmd.Flags().Bool("intercept", true, "fit an intercept term (linear)")
	fitCmd.Flags().Float64("learning-rate", 0, "gradient descent step size (logistic)")
	fitCmd.Flags().Int("epochs", 0, "gradient descent passes (logistic)")
	fitCmd.Flags().Int("neighbors", 0, "k for k-nearest neighbours")
	fitCmd.Flags().Int("clusters", 0, "k for k-means")
	fitCmd.Flags().Float64("test", 0.2, "fraction of rows for the test set")
	fitCmd.Flags().Float64("validate", 0, "fraction of rows for the validation set")
	fitCmd.Flags().Int64("seed", 0, "shuffle and initialisation seed")
	fitCmd.Flags().Bool("register", false, "record the run in the dataset registry")

	rootCmd.AddCommand(fitCmd)
}
