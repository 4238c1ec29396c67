package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/remediarr/remediarr/internal/model"
)

// BotPrefix tags every comment this service posts and anchors the loop
// guard's own-comment check. It is deliberately not configurable.
const BotPrefix = "[Remediarr]"

type Config struct {
	Env  string
	Port string

	OTel       OTelConfig
	Webhook    WebhookConfig
	Jellyseerr JellyseerrConfig
	Sonarr     ArrConfig
	Radarr     ArrConfig
	TMDB       TMDBConfig
	Gotify     GotifyConfig
	Apprise    AppriseConfig
	Guard      GuardConfig

	EnableBlocklist bool

	Keywords  []model.KeywordSet
	Priority  []model.Category
	Templates map[model.TemplateName]string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type WebhookConfig struct {
	SharedSecret string
	HeaderName   string
	HeaderValue  string
}

type JellyseerrConfig struct {
	URL             string
	APIKey          string
	Timeout         time.Duration
	CommentOnAction bool
	CloseIssues     bool
	CloseMessage    string
	CoachReporters  bool
	BotUsername     string
}

// ArrConfig covers both media managers; they share the connection shape.
type ArrConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type TMDBConfig struct {
	APIKey               string
	Timeout              time.Duration
	SearchOnlyIfReleased bool
}

type GotifyConfig struct {
	URL      string
	Token    string
	Priority int
}

type AppriseConfig struct {
	URL     string
	Targets []string
}

type GuardConfig struct {
	DedupTTL time.Duration
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c JellyseerrConfig) Enabled() bool {
	return c.URL != "" && c.APIKey != ""
}

func (c ArrConfig) Enabled() bool {
	return c.URL != "" && c.APIKey != ""
}

func (c TMDBConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c GotifyConfig) Enabled() bool {
	return c.URL != "" && c.Token != ""
}

func (c AppriseConfig) Enabled() bool {
	return c.URL != "" && len(c.Targets) > 0
}

// Load reads configuration from the environment. Keyword lists, the
// classifier priority order, and message templates are parsed once here;
// requests never re-parse raw strings.
func Load() (Config, error) {
	if getEnv("REMEDIARR_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:  getEnv("REMEDIARR_ENV", "development"),
		Port: getEnv("PORT", "8189"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "remediarr"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Webhook: WebhookConfig{
			SharedSecret: getEnv("WEBHOOK_SHARED_SECRET", ""),
			HeaderName:   getEnv("WEBHOOK_HEADER_NAME", "X-Jellyseerr-Token"),
			HeaderValue:  getEnv("WEBHOOK_HEADER_VALUE", ""),
		},
		Jellyseerr: JellyseerrConfig{
			URL:             strings.TrimSuffix(getEnv("JELLYSEERR_URL", "http://jellyseerr:5055"), "/"),
			APIKey:          getEnv("JELLYSEERR_API_KEY", ""),
			Timeout:         getEnvDuration("JELLYSEERR_HTTP_TIMEOUT", 20*time.Second),
			CommentOnAction: getEnvBool("JELLYSEERR_COMMENT_ON_ACTION", true),
			CloseIssues:     getEnvBool("JELLYSEERR_CLOSE_ISSUES", true),
			CloseMessage:    getEnv("JELLYSEERR_CLOSE_MESSAGE", "Issue auto-closed after remediation. If anything's still off, comment and I'll take another pass."),
			CoachReporters:  getEnvBool("JELLYSEERR_COACH_REPORTERS", true),
			BotUsername:     getEnv("JELLYSEERR_BOT_USERNAME", ""),
		},
		Sonarr: ArrConfig{
			URL:     strings.TrimSuffix(getEnv("SONARR_URL", "http://sonarr:8989"), "/"),
			APIKey:  getEnv("SONARR_API_KEY", ""),
			Timeout: getEnvDuration("SONARR_HTTP_TIMEOUT", 60*time.Second),
		},
		Radarr: ArrConfig{
			URL:     strings.TrimSuffix(getEnv("RADARR_URL", "http://radarr:7878"), "/"),
			APIKey:  getEnv("RADARR_API_KEY", ""),
			Timeout: getEnvDuration("RADARR_HTTP_TIMEOUT", 60*time.Second),
		},
		TMDB: TMDBConfig{
			APIKey:               getEnv("TMDB_API_KEY", ""),
			Timeout:              getEnvDuration("TMDB_HTTP_TIMEOUT", 20*time.Second),
			SearchOnlyIfReleased: getEnvBool("SEARCH_ONLY_IF_DIGITAL_RELEASE", true),
		},
		Gotify: GotifyConfig{
			URL:      strings.TrimSuffix(getEnv("GOTIFY_URL", ""), "/"),
			Token:    getEnv("GOTIFY_TOKEN", ""),
			Priority: getEnvInt("GOTIFY_PRIORITY", 5),
		},
		Apprise: AppriseConfig{
			URL:     strings.TrimSuffix(getEnv("APPRISE_URL", ""), "/"),
			Targets: splitCSV(getEnv("APPRISE_TARGETS", "")),
		},
		Guard: GuardConfig{
			DedupTTL: getEnvDuration("ISSUE_DEDUP_TTL_SEC", 90*time.Second),
		},
		EnableBlocklist: getEnvBool("ENABLE_BLOCKLIST", true),
	}

	keywords, err := loadKeywords()
	if err != nil {
		return Config{}, err
	}
	cfg.Keywords = keywords

	priority, err := loadPriority()
	if err != nil {
		return Config{}, err
	}
	cfg.Priority = priority

	cfg.Templates = loadTemplates()

	if !cfg.Sonarr.Enabled() && !cfg.Radarr.Enabled() {
		return Config{}, fmt.Errorf("at least one of SONARR_URL/SONARR_API_KEY or RADARR_URL/RADARR_API_KEY is required")
	}
	if !cfg.Jellyseerr.Enabled() {
		return Config{}, fmt.Errorf("JELLYSEERR_URL and JELLYSEERR_API_KEY are required")
	}

	return cfg, nil
}

var keywordEnvs = []struct {
	env       string
	mediaKind model.MediaKind
	category  model.Category
	fallback  string
}{
	{"TV_AUDIO_KEYWORDS", model.MediaKindTV, model.CategoryAudio, "no audio,no sound,missing audio,audio issue,wrong language,not in english"},
	{"TV_VIDEO_KEYWORDS", model.MediaKindTV, model.CategoryVideo, "no video,video glitch,black screen,stutter,pixelation"},
	{"TV_SUBTITLE_KEYWORDS", model.MediaKindTV, model.CategorySubtitle, "missing subs,no subtitles,bad subtitles,wrong subs,subs out of sync"},
	{"TV_OTHER_KEYWORDS", model.MediaKindTV, model.CategoryOther, "buffering,playback error,corrupt file"},
	{"MOVIE_AUDIO_KEYWORDS", model.MediaKindMovie, model.CategoryAudio, "no audio,no sound,audio issue,wrong language,not in english"},
	{"MOVIE_VIDEO_KEYWORDS", model.MediaKindMovie, model.CategoryVideo, "no video,video missing,bad video,broken video,black screen"},
	{"MOVIE_SUBTITLE_KEYWORDS", model.MediaKindMovie, model.CategorySubtitle, "missing subs,no subtitles,bad subtitles,wrong subs,subs out of sync"},
	{"MOVIE_OTHER_KEYWORDS", model.MediaKindMovie, model.CategoryOther, "buffering,playback error,corrupt file"},
	{"MOVIE_WRONG_KEYWORDS", model.MediaKindMovie, model.CategoryWrongMedia, "not the right movie,wrong movie,incorrect movie"},
}

func loadKeywords() ([]model.KeywordSet, error) {
	sets := make([]model.KeywordSet, 0, len(keywordEnvs))
	for _, kw := range keywordEnvs {
		phrases := splitCSVLower(getEnv(kw.env, kw.fallback))
		if len(phrases) == 0 {
			return nil, fmt.Errorf("%s: keyword list is empty", kw.env)
		}
		sets = append(sets, model.KeywordSet{
			MediaKind: kw.mediaKind,
			Category:  kw.category,
			Phrases:   phrases,
		})
	}
	return sets, nil
}

// loadPriority parses the classifier priority order. The default follows the
// documented behavior; operators may reorder it, but every entry must be a
// known category.
func loadPriority() ([]model.Category, error) {
	raw := splitCSVLower(getEnv("CLASSIFY_PRIORITY", "wrong_media,subtitle,video,audio,other"))

	known := map[model.Category]bool{
		model.CategoryWrongMedia: true,
		model.CategorySubtitle:   true,
		model.CategoryVideo:      true,
		model.CategoryAudio:      true,
		model.CategoryOther:      true,
	}

	seen := make(map[model.Category]bool, len(raw))
	order := make([]model.Category, 0, len(raw))
	for _, r := range raw {
		c := model.Category(r)
		if !known[c] {
			return nil, fmt.Errorf("CLASSIFY_PRIORITY: unknown category %q", r)
		}
		if seen[c] {
			return nil, fmt.Errorf("CLASSIFY_PRIORITY: duplicate category %q", r)
		}
		seen[c] = true
		order = append(order, c)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("CLASSIFY_PRIORITY: empty priority order")
	}
	return order, nil
}

func loadTemplates() map[model.TemplateName]string {
	return map[model.TemplateName]string{
		model.TemplateTVReplaced:       getEnv("MSG_TV_EP_REPLACED", "{title} S{season}E{episode} – deleted file and re-download started."),
		model.TemplateTVSearchOnly:     getEnv("MSG_TV_OTHER_SEARCH_ONLY", "{title} S{season}E{episode} – search triggered (no delete)."),
		model.TemplateMovieHandled:     getEnv("MSG_MOV_GENERIC_HANDLED", "{title}: blocklisted last grab, deleted {deleted} file(s), search started."),
		model.TemplateMovieWrong:       getEnv("MSG_MOV_WRONG_HANDLED", "Wrong movie: {title}. Blocklisted last grab, deleted {deleted} file(s), search started."),
		model.TemplateMovieNotSearched: getEnv("MSG_MOV_WRONG_NO_RELEASE", "Wrong movie: {title}. Blocklisted last grab, deleted {deleted} file(s). Not searching (not digitally released)."),
		model.TemplateCoach:            getEnv("MSG_KEYWORD_COACH", "Tip: include one of these keywords next time so I can fix this automatically: {keywords}."),
		model.TemplateRemediationFail:  getEnv("MSG_REMEDIATION_FAILED", "{title}: automated remediation did not fully succeed. An admin may need to take a look."),
		model.TemplateAutoCloseFail:    getEnv("MSG_AUTOCLOSE_FAIL", "Action completed but I couldn't auto-close this issue. Please close it once you verify it's fixed."),
	}
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func splitCSVLower(raw string) []string {
	parts := splitCSV(raw)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return parts
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration reads a duration expressed in whole seconds, matching the
// *_TIMEOUT/*_SEC convention the deployment env files already use.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
