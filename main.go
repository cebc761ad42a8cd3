package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/joho/godotenv"
	"github.com/netisu/melody-tracer/aeno"
)

// --- Constants ---
const (
	RenderTimeout = 20 * time.Second
	UploadTimeout = 10 * time.Second
	PreviewSize   = 128
	MaxResolution = 1024
	MaxDepth      = 4
	MaxAntialias  = 4
	DefaultScene  = "spheres"
	MaxBodySize   = 1 << 20
)

type Config struct {
	PostKey       string
	ServerAddress string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string
	S3Region      string
	S3Bucket      string
	CDNURL        string
	RootDir       string
	DefaultScene  string
}

// Helper to get environment variables with a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func loadConfig() *Config {
	rootDir := getEnv("RENDERER_ROOT_DIR", "/var/www/renderer")
	_ = godotenv.Load(path.Join(rootDir, ".env"))

	return &Config{
		PostKey:       os.Getenv("POST_KEY"),
		ServerAddress: getEnv("SERVER_ADDRESS", ":4316"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		CDNURL:        os.Getenv("CDN_URL"),
		RootDir:       rootDir,
		DefaultScene:  getEnv("DEFAULT_SCENE", DefaultScene),
	}
}

func newS3Client(cfg *Config) (*s3.S3, error) {
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Endpoint:         aws.String(cfg.S3Endpoint),
		Region:           aws.String(cfg.S3Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

// Initializes everything once.
func main() {
	cfg := loadConfig()
	log.Printf("%s", aeno.Version())

	preset, err := aeno.Preset(cfg.DefaultScene)
	if err != nil {
		log.Fatalf("Failed to load default scene: %v", err)
	}
	scene, settings, err := preset.Build()
	if err != nil {
		log.Fatalf("Failed to build default scene: %v", err)
	}
	tracer, err := aeno.NewTracer(scene, settings)
	if err != nil {
		log.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Close()

	httpClient := &http.Client{Timeout: 10 * time.Second}
	server := NewServer(cfg, httpClient, tracer)

	if cfg.S3Bucket != "" {
		client, err := newS3Client(cfg)
		if err != nil {
			log.Fatalf("Failed to create S3 session: %v", err)
		}
		server.s3Uploader = client
	} else {
		log.Printf("S3_BUCKET not set, renders will not be uploaded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.publishFrames(ctx)

	fmt.Printf("Starting server on %s\n", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, server.routes()); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
