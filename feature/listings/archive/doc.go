// Package archive keeps a history of listing snapshots in object storage.
//
// Objects are written to listings/<steamid>/<unix>.json. With a retention
// count set, older objects of the account are pruned after each upload.
package archive
