package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS     = ""                      // e.g. "example.com,example2.com"
	MYSQL_DSN       = ""                      // MySQL will be used if this is set
	SQLITE_FILE     = "tooltipper.db"         // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS    = "0.0.0.0:8080"          //
	PUBLIC_ORIGIN   = "http://localhost:8080" // Used for share links and for serving photos from a local bucket
	DEBUG_MODE      = true                    //
	SESSION_KEY     = "this is a long key"    // Signs the author session cookie, change it in production
	MAX_UPLOAD_SIZE = int64(5242880)          // 5MB
	THUMB_SIZE      = 1280                    // Default size of viewer thumbnails
	// Used for creating the initial bucket. If S3_BUCKET is set, an S3 bucket is created, otherwise DEFAULT_BUCKET_DIR is used
	DEFAULT_BUCKET_DIR = "./data/photos"
	S3_BUCKET          = ""
	S3_REGION          = "us-east-1"
	S3_ENDPOINT        = "" // e.g. MinIO
	S3_KEY             = ""
	S3_SECRET          = ""
	S3_PUBLIC_URL      = "" // defaults to the virtual-hosted bucket URL
	// Author workspaces (upload + pending tooltip state) are dropped after this much inactivity
	WORKSPACE_IDLE_MINUTES = 120
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("PUBLIC_ORIGIN", &PUBLIC_ORIGIN)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvInt64("MAX_UPLOAD_SIZE", &MAX_UPLOAD_SIZE)
	readEnvInt("THUMB_SIZE", &THUMB_SIZE)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvString("S3_PUBLIC_URL", &S3_PUBLIC_URL)
	readEnvInt("WORKSPACE_IDLE_MINUTES", &WORKSPACE_IDLE_MINUTES)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt64(name string, value *int64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return
	}
	*value = f
}
