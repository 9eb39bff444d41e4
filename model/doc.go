// Package model is the public facade: it opens containers into typed
// models, synthesizes defaults, and saves models back atomically. A model
// owns its container handle only when it opened the file itself; handles
// passed in stay with the caller.
package model
