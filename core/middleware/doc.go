// Package middleware holds the Fiber middleware shared by every feature.
//
//   - rayid tags each request with an X-Ray-ID header and a "ray_id" local,
//     which logger.WithRayID picks up.
//   - auth rejects requests without the configured X-API-Key. An empty key
//     disables the check.
//
// Register rayid first so rejected requests are traced too.
package middleware
