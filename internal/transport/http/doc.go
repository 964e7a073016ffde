// Package http implements the HTTP handlers for the Advisor ingest
// service. It is a thin layer between transport and business logic:
// handlers parse requests, delegate to services, and format responses.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Pipeline
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// All errors render as RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/payload-too-large",
//	    "title": "Upload Rejected",
//	    "status": 413,
//	    "detail": "declared size 62914560 exceeds the 52428800 byte limit",
//	    "instance": "/api/uploads"
//	}
package http
