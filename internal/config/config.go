package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/mind-engage/sheetgrader/internal/grader"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // where uploaded submissions are kept

	SolutionPath string
	PartID       string // hosted-autograder assignment part

	DropDir      string // hosted: where the platform drops the submission
	WorkDir      string // hosted: scratch dir
	FeedbackPath string // hosted: persisted feedback payload

	EnableLocalAuth bool
	OperatorUser    string
	OperatorHash    string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	Criteria grader.Criteria
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	crit := grader.DefaultCriteria()
	crit.VisibleRow = envInt("VISIBLE_ROW", crit.VisibleRow)
	crit.VisibleStartCol = envInt("VISIBLE_START_COL", crit.VisibleStartCol)
	if cells := csvOr("HIDDEN_CELLS", ""); len(cells) > 0 {
		crit.HiddenCells = cells
	}
	crit.VisibleWeight = envFloat("VISIBLE_WEIGHT", crit.VisibleWeight)
	crit.HiddenWeight = envFloat("HIDDEN_WEIGHT", crit.HiddenWeight)

	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		SolutionPath:       envOr("SOLUTION_PATH", "solution.xlsx"),
		PartID:             envOr("PART_ID", ""),
		DropDir:            envOr("DROP_DIR", "/shared/submission"),
		WorkDir:            envOr("WORK_DIR", "/grader"),
		FeedbackPath:       envOr("FEEDBACK_PATH", "/shared/feedback.json"),
		EnableLocalAuth:    envBool("ENABLE_LOCAL_AUTH", true),
		OperatorUser:       envOr("OPERATOR_USER", "operator"),
		OperatorHash:       envOr("OPERATOR_PASS_HASH", ""),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://grader.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000"),
		Criteria:           crit,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil {
		return v
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
