// Package http implements the HTTP handlers of the analysis API. Handlers
// stay thin: they parse query parameters, call a service and render the
// result with go-chi/render.
//
// # Routes
//
//	GET /api/health                        overall status
//	GET /api/health/live                   liveness
//	GET /api/health/ready                  workbooks and reports directory
//	GET /api/version                       build information
//	GET /api/analysis/summary?period=      executive summary
//	GET /api/analysis/customers?period=    RFM profile and segment per customer
//	GET /api/analysis/segments?period=     segment distribution
//	GET /api/analysis/strategies?period=&segment=
//	GET /api/analysis/strategies.csv?period=
//
// An empty period analyses every configured period.
//
// # Error Handling
//
// Service errors are passed to errors.ErrorHandler, which renders RFC 7807
// problem details:
//
//	{
//	    "type": "/errors/analysis/clustering",
//	    "title": "Not Enough Customers",
//	    "status": 422,
//	    "detail": "clustering needs at least 5 distinct customers, got 3",
//	    "instance": "/api/analysis/segments"
//	}
package http
