// Package schoolapi provides an HTTP client for the school schedule service.
//
// # Overview
//
// The client covers the six read-only endpoints the schedule view needs:
//
//   - GET /api/users/me/school?type=: the signed-in user's saved school or region
//   - GET /api/schools/code/{code}: school name and education office (ATPT) code
//   - GET /api/schools/search?name=: school code lookup by display name
//   - GET /api/schools/{code}/schedules: full school schedule for a year/grade
//   - GET /api/regions/{id}: region display name
//   - GET /api/regions/schedules/average: grade-averaged region schedule
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: schoolcal/0.1
//   - Carry a fresh X-Request-ID so backend logs can be correlated
//   - Send Authorization: Bearer <token> once SetToken has been called
//   - Return wrapped errors ("execute request", "decode response",
//     "api <path> returned status <n>")
//
// Lookups that come back empty return an error wrapping ErrNotFound.
//
// # Schedule Records
//
// Schedule records are passed through verbatim. Schedule keeps the raw JSON
// and reads display fields (date, title, grades) with gjson, accepting the
// key spellings the backend has used over time.
//
// # Codes
//
// School and region codes arrive as JSON strings or numbers. Code decodes
// both to text so a region id of 1 and "1" compare equal.
package schoolapi
