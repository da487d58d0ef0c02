package config

import (
	"sort"
	"time"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/view"
	pkgconfig "github.com/weiawesome/wes-io-live/spellcheck-service/pkg/config"
	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/pubsub"
)

type Config struct {
	Server        ServerConfig
	Elasticsearch ElasticsearchConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Spellcheck    SpellcheckConfig
	Views         map[string]ViewConfig
	Database      DatabaseConfig
	PubSub        pubsub.Config `mapstructure:"pubsub"`
	Log           LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type ElasticsearchConfig struct {
	Addresses       []string `mapstructure:"addresses"`
	Username        string   `mapstructure:"username"`
	Password        string   `mapstructure:"password"`
	SpellcheckField string   `mapstructure:"spellcheck_field"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Driver string        `mapstructure:"driver"` // "redis", "memory"
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type SpellcheckConfig struct {
	FilterName   string `mapstructure:"filter_name"`
	HideOnResult bool   `mapstructure:"hide_on_result"`
}

type ViewConfig struct {
	Display  string         `mapstructure:"display"`
	Index    string         `mapstructure:"index"`
	Fields   []string       `mapstructure:"fields"`
	Filters  []FilterConfig `mapstructure:"filters"`
	Tags     []string       `mapstructure:"tags"`
	PageSize int            `mapstructure:"page_size"`
}

type FilterConfig struct {
	ID         string `mapstructure:"id"`
	Identifier string `mapstructure:"identifier"`
}

type DatabaseConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	return LoadFrom(pkgconfig.GetEnv("CONFIG_PATH", "./config"), "config")
}

// LoadFrom loads configuration from configPath/configName.yaml plus env.
func LoadFrom(configPath, configName string) (*Config, error) {
	v, err := pkgconfig.Load(configPath, configName)
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8095)
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.spellcheck_field", "spellcheck")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.driver", "redis")
	v.SetDefault("cache.prefix", "spellcheck")
	v.SetDefault("cache.ttl", "5m")
	// The component defaults to "query"; the bundled view exposes "keys",
	// which is also the parameter suggestion links write.
	v.SetDefault("spellcheck.filter_name", "keys")
	v.SetDefault("spellcheck.hide_on_result", true)
	v.SetDefault("views", map[string]interface{}{
		"search": map[string]interface{}{
			"index":  "content",
			"fields": []string{"title", "body"},
			"filters": []map[string]interface{}{
				{"id": "search_api_fulltext", "identifier": "keys"},
			},
			"page_size": 10,
		},
	})
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "./data/spellcheck.db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("pubsub.driver", "none")
	v.SetDefault("pubsub.redis.address", "localhost:6379")
	v.SetDefault("pubsub.redis.pool_size", 10)
	v.SetDefault("pubsub.redis.read_timeout", "3s")
	v.SetDefault("pubsub.redis.write_timeout", "3s")
	v.SetDefault("pubsub.kafka.brokers", "localhost:9092")
	v.SetDefault("pubsub.kafka.group_id", "spellcheck-service")
	v.SetDefault("log.level", "info")

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("elasticsearch.addresses", "ES_ADDRESSES")
	v.BindEnv("elasticsearch.username", "ES_USERNAME")
	v.BindEnv("elasticsearch.password", "ES_PASSWORD")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("pubsub.kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("database.password", "DB_PASSWORD")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ViewDefinitions converts the configured views, sorted by id.
func (c *Config) ViewDefinitions() []view.Definition {
	defs := make([]view.Definition, 0, len(c.Views))
	for id, vc := range c.Views {
		filters := make([]view.FulltextFilter, 0, len(vc.Filters))
		for _, f := range vc.Filters {
			filters = append(filters, view.FulltextFilter{ID: f.ID, Identifier: f.Identifier})
		}
		defs = append(defs, view.Definition{
			ID:       id,
			Display:  vc.Display,
			Index:    vc.Index,
			Fields:   vc.Fields,
			Filters:  filters,
			Tags:     vc.Tags,
			PageSize: vc.PageSize,
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}
