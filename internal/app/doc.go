// Package app wires configuration, logging, telemetry, the analysis
// pipeline and the HTTP API into a runnable server.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, the YAML file and RFM_* variables
//	2. Initialize the slog logger and OpenTelemetry providers
//	3. Resolve paths and create the reports and logs directories
//	4. Build the pipeline and the analysis and health services
//	5. Set up the chi router, middleware and handlers
//	6. Start the HTTP server and wait for SIGINT or SIGTERM
//
// # Middleware Order
//
//	RequestID → RealIP → OTel → StructuredLogger → Recovery → SecurityHeaders → CORS → RateLimit
//
// The analysis routes additionally carry a request timeout. /metrics sits
// outside the group so scrapes are neither rate limited nor logged.
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
package app
