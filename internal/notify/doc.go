// Package notify renders and delivers soil-moisture alerts.
//
// The EmailNotifier renders an html/template body (external file or embedded
// default), composes a multipart/alternative MIME message, and hands it to
// an SMTP-compatible server — Amazon SES works through its SMTP endpoint.
// The Recorder implementation captures alerts in memory for tests.
package notify
