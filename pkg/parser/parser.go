package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath — файл настроек, который ищется в текущей директории.
const DefaultPath = ".composecheck.yaml"

func Parse(content []byte) (*Config, error) {
	var config Config

	if len(content) == 0 {
		return nil, errors.New("содержимое конфигурации не может быть пустым")
	}

	err := yaml.Unmarshal(content, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка при парсинге конфига: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Load читает файл настроек. Отсутствие файла ошибкой не считается: возвращается nil.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
	}

	config, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("неподдерживаемая версия конфигурации: %d", c.Version)
	}

	seen := make(map[string]bool, len(c.Services))
	for _, name := range c.Services {
		if err := ValidateServiceName(name); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("сервис '%s' указан несколько раз", name)
		}
		seen[name] = true
	}
	return nil
}

// ValidateServiceName отбрасывает имена, которые не могут быть ключом верхнего уровня.
func ValidateServiceName(name string) error {
	if name == "" {
		return errors.New("имя сервиса не может быть пустым")
	}
	if strings.ContainsAny(name, ": \t\r\n") {
		return fmt.Errorf("недопустимое имя сервиса '%s'", name)
	}
	return nil
}
