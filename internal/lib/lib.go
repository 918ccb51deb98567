// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains background job processing (using Redis/Asynq), the e-mail
// client (Resend) and the Expo push notification client.
package lib
