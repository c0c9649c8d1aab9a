package parser

// Config — это корневая структура, представляющая файл .composecheck.yaml
type Config struct {
	Version  int      `yaml:"version"`
	File     string   `yaml:"file,omitempty"`     // путь к docker-compose.yml
	Services []string `yaml:"services,omitempty"` // example: app, web, db, node
}
