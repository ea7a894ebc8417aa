package main

import (
	"flag"

	"vision-scout/internal/app"
	"vision-scout/internal/logger"
)

func main() {
	serviceURL := flag.String("service", "http://localhost:9001", "base URL of the inference service")
	deviceID := flag.Int("device", 0, "camera device index")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (0 uses the default)")
	timeout := flag.Duration("timeout", 0, "inference request timeout (0 uses the default)")
	flag.Parse()

	log := logger.NewConsoleLogger(logger.LevelFromEnv())

	application := app.New(app.Config{
		ServiceURL:     *serviceURL,
		DeviceID:       *deviceID,
		JPEGQuality:    *quality,
		RequestTimeout: *timeout,
	}, log)

	application.Run()
}
