// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the run file.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/feed-ration/internal/catalog"
	"github.com/iwvelando/feed-ration/internal/ration"
	"github.com/iwvelando/feed-ration/pkg/configprocessor"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for one ration run.
type Configuration struct {
	Logging      LoggingConfig            `yaml:"logging,omitempty" mapstructure:"logging"`
	Output       OutputConfig             `yaml:"output,omitempty" mapstructure:"output"`
	Optimizer    OptimizerConfig          `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
	Catalog      []catalog.Row            `yaml:"catalog" mapstructure:"catalog"`
	Requirements []catalog.RequirementRow `yaml:"requirements" mapstructure:"requirements"`
	Ration       RationConfig             `yaml:"ration" mapstructure:"ration"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// RationConfig names the animal and the priced ingredient selection.
type RationConfig struct {
	AnimalType  string                `yaml:"animalType" mapstructure:"animalType"`
	Ingredients []IngredientSelection `yaml:"ingredients" mapstructure:"ingredients"`
}

// IngredientSelection is one selected catalog entry and its unit price. A
// nil price means none was given.
type IngredientSelection struct {
	Name  string   `yaml:"name" mapstructure:"name"`
	Price *float64 `yaml:"price,omitempty" mapstructure:"price"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// BuildCatalog validates the catalog rows.
func (c *Configuration) BuildCatalog() (*catalog.Catalog, error) {
	return catalog.New(c.Catalog)
}

// BuildRequirements validates the requirement rows.
func (c *Configuration) BuildRequirements() (*catalog.Requirements, error) {
	return catalog.NewRequirements(c.Requirements)
}

// SelectedNames returns the selected ingredient names in file order.
func (c *Configuration) SelectedNames() []string {
	names := make([]string, 0, len(c.Ration.Ingredients))
	for _, sel := range c.Ration.Ingredients {
		names = append(names, strings.TrimSpace(sel.Name))
	}
	return names
}

// Prices returns the given prices keyed by ingredient name. Selections
// without a price are left out so that merging reports them as missing.
func (c *Configuration) Prices() map[string]float64 {
	prices := make(map[string]float64, len(c.Ration.Ingredients))
	for _, sel := range c.Ration.Ingredients {
		if sel.Price != nil {
			prices[strings.TrimSpace(sel.Name)] = *sel.Price
		}
	}
	return prices
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	cat, err := c.BuildCatalog()
	if err != nil {
		return []string{fmt.Sprintf("Catalog could not be loaded: %v", err)}
	}
	var animalTypes []string
	if req, err := c.BuildRequirements(); err != nil {
		warnings = append(warnings, fmt.Sprintf("Requirements could not be loaded: %v", err))
	} else {
		animalTypes = req.AnimalTypes()
	}

	if !c.Optimizer.KnownSolver() {
		warnings = append(warnings, fmt.Sprintf("Solver '%s' is not available; the run will report no solver", c.Optimizer.Solver))
	}

	prices := c.Prices()
	var ingredients []configprocessor.IngredientInfo
	for _, name := range c.SelectedNames() {
		entry, err := cat.Find(name)
		if err != nil {
			ingredients = append(ingredients, configprocessor.IngredientInfo{Name: name})
			continue
		}
		content := make(map[string]float64, len(entry.Content))
		for n, v := range entry.Content {
			content[string(n)] = v
		}
		price, priced := prices[name]
		ingredients = append(ingredients, configprocessor.IngredientInfo{
			Name:     name,
			Category: entry.Category.Label(),
			Price:    price,
			Priced:   priced,
			Content:  content,
			Known:    true,
		})
	}

	labels := make([]string, len(ration.Categories))
	for i, category := range ration.Categories {
		labels[i] = category.Label()
	}

	processor := configprocessor.NewProcessor()
	warnings = append(warnings, processor.ValidateConfiguration(configprocessor.RunInfo{
		AnimalType:  c.Ration.AnimalType,
		AnimalTypes: animalTypes,
		Categories:  labels,
		Ingredients: ingredients,
	})...)

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
