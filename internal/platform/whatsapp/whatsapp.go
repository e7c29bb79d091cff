// Package whatsapp composes patient-notification messages and wa.me deep
// links. Nothing is sent from the server; the link is opened by the
// secretary's own device so the conversation stays on their number.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

// ResultNotice holds the fields interpolated into the patient message.
type ResultNotice struct {
	PatientName   string
	SecretaryName string
	DoctorName    string
	ClinicName    string
}

// ComposeResultNotice renders the standard "your exam has been reviewed"
// message. The full result is never included; the patient must reply to
// receive the report through a manual, verified channel.
func ComposeResultNotice(n ResultNotice) string {
	sender := n.SecretaryName
	if sender == "" {
		sender = "the clinic team"
	}
	return fmt.Sprintf(
		"Hello, %s!\n"+
			"This is %s, from %s.\n"+
			"This is an automated notice that your exam has been reviewed by Dr. %s.\n\n"+
			"For confidentiality and safety we do not send the full result through this channel.\n"+
			"If you would like to receive the PDF report, just reply YES and our team will send it manually.\n\n"+
			"We remain at your service.",
		n.PatientName, sender, n.ClinicName, n.DoctorName)
}

// ComposeLabFollowUp renders the message sent to a lab whose turnaround
// promise has lapsed for a given specimen.
func ComposeLabFollowUp(clinicName, patientName, flaskNumber, collectedOn string, slaDays int) string {
	unit := "days"
	if slaDays == 1 {
		unit = "day"
	}
	return fmt.Sprintf(
		"Hello! This is the front desk at %s. The exam for patient %s (flask %s) "+
			"was collected by the lab on %s and has passed the agreed turnaround of %d %s. "+
			"Could you let us know the expected release date?",
		clinicName, patientName, flaskNumber, collectedOn, slaDays, unit)
}

// Link builds a wa.me deep link for the given phone and message text.
// Non-digit characters are stripped from the phone number; an empty
// result means no link can be built.
func Link(phone, message string) (string, error) {
	digits := onlyDigits(phone)
	if digits == "" {
		return "", fmt.Errorf("phone number has no digits: %q", phone)
	}
	return baseURL + digits + "?text=" + url.QueryEscape(message), nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
