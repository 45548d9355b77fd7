package notifier

import (
	"fmt"

	"github.com/contractpro/contractpro/internal/model"
)

// Email bodies mirror the plain templates used in production alerts; they
// are intentionally minimal HTML.

func AssignmentEmail(appURL string, c *model.Contract, reviewer *model.User) (subject, body string) {
	link := fmt.Sprintf("%s/contracts/%s", appURL, c.ID)
	subject = fmt.Sprintf("Contract Review: %s", c.Title)
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>You have been assigned to review: <b>%s</b></p><p>Contract: %s</p><p><a href=%q>Click here to open the contract</a></p>",
		reviewer.FullName, c.Title, c.ContractNumber, link,
	)
	return subject, body
}

func ApprovalEmail(c *model.Contract, uploader *model.User) (subject, body string) {
	subject = fmt.Sprintf("Contract Approved: %s", c.Title)
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>Contract <b>%s</b> has been approved!</p>",
		uploader.FullName, c.ContractNumber,
	)
	return subject, body
}

func ReminderEmail(c *model.Contract, reminderNumber int) (subject, body string) {
	subject = fmt.Sprintf("Reminder: %s", c.Title)
	body = fmt.Sprintf("<p>Reminder #%d: Please review %s</p>", reminderNumber, c.ContractNumber)
	return subject, body
}

func EscalationEmail(c *model.Contract, handler *model.User) (subject, body string) {
	subject = fmt.Sprintf("Escalation: %s", c.Title)
	body = fmt.Sprintf(
		"<p>ESCALATION: %s has not reviewed %s</p>",
		handler.FullName, c.ContractNumber,
	)
	return subject, body
}

func VendorInviteEmail(appURL string, vendor *model.User) (subject, body string) {
	subject = "Vendor portal account created"
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>A vendor portal account has been created for you.</p><p>Username: <b>%s</b></p><p><a href=%q>Log in here</a></p>",
		vendor.FullName, vendor.Username, appURL,
	)
	return subject, body
}

func VendorResponseEmail(c *model.Contract) (subject, body string) {
	subject = fmt.Sprintf("Vendor Response: %s", c.Title)
	body = fmt.Sprintf("<p>Vendor has responded to %s</p>", c.ContractNumber)
	return subject, body
}
