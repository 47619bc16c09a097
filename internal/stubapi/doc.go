// Package stubapi serves the schedule service endpoints from fixture data.
//
// It backs cmd/schoolcal-stub and the end-to-end tests. Routes mirror the
// real service:
//
//	GET /api/users/me/school?type=school|region   (bearer token required)
//	GET /api/schools/code/:code
//	GET /api/schools/search?name=
//	GET /api/schools/:code/schedules?atptCode=&year=&grade=
//	GET /api/regions/:id
//	GET /api/regions/schedules/average?regionName=&grade=&year=
//
// Bearer tokens are decoded but not verified; the user_id claim selects the
// saved school or region from the fixtures. Every response carries an
// X-Request-ID header, echoing the caller's when present.
package stubapi
