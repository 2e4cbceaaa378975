// Package readerregistered reacts to registered readers.
//
// The Notification is published after a successful registration and fanned out to
// independent handlers: WelcomeMailHandler enqueues a welcome mail, RegistrationCounter
// counts registrations. A failing handler does not stop the others.
package readerregistered
