package notify

import (
	"fmt"
	"strings"

	"aicruel-backend/utils"
)

// Message rendering per channel. Phrasing is identical everywhere; channels
// only differ in length and markup.

func EmailSubject(p Payload) string {
	return fmt.Sprintf("Deadline Reminder: %s", p.Title)
}

func EmailTextBody(p Payload) string {
	var b strings.Builder
	b.WriteString("Hi there!\n\n")
	b.WriteString("This is a reminder about your upcoming deadline:\n\n")
	fmt.Fprintf(&b, "Task: %s\n", p.Title)
	fmt.Fprintf(&b, "Due: %s (%s)\n", utils.FormatDueDate(p.DueAt), p.TimeStr())
	fmt.Fprintf(&b, "Priority: %s\n", p.PriorityStr())
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	if p.SourceURL != "" {
		fmt.Fprintf(&b, "Link: %s\n", p.SourceURL)
	}
	b.WriteString("\nDon't forget to complete this task on time!\n\n")
	b.WriteString("Best regards,\nYour AI Cruel Deadline Manager\n")
	return b.String()
}

func EmailHTMLBody(p Payload) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">`)
	b.WriteString(`<div style="max-width: 600px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<h2 style="color: #2563eb;">Deadline Reminder</h2>`)
	b.WriteString(`<div style="background: #f8fafc; padding: 20px; border-radius: 8px; border-left: 4px solid #2563eb;">`)
	fmt.Fprintf(&b, `<h3 style="margin: 0 0 10px 0; color: #1e293b;">%s</h3>`, p.Title)
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Due:</strong> %s (%s)</p>`, utils.FormatDueDate(p.DueAt), p.TimeStr())
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Priority:</strong> <span style="color: #dc2626;">%s</span></p>`, p.PriorityStr())
	if p.SourceURL != "" {
		fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Link:</strong> <a href="%s">%s</a></p>`, p.SourceURL, p.SourceURL)
	}
	b.WriteString(`</div>`)
	b.WriteString(`<p style="margin-top: 20px;">Don't forget to complete this task on time!</p>`)
	b.WriteString(`<p style="color: #64748b; font-size: 14px;">Best regards,<br>Your AI Cruel Deadline Manager</p>`)
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func SMSBody(p Payload) string {
	msg := fmt.Sprintf("Deadline Reminder: %s is due %s (%s). Priority: %s",
		p.Title, p.TimeStr(), p.DueAt.Format("01/02 at 15:04"), p.PriorityStr())
	if p.SourceURL != "" {
		msg += " " + p.SourceURL
	}
	return msg
}

func WhatsAppBody(p Payload) string {
	var b strings.Builder
	b.WriteString("*Deadline Reminder*\n\n")
	fmt.Fprintf(&b, "*Task:* %s\n", p.Title)
	fmt.Fprintf(&b, "*Due:* %s (%s)\n", utils.FormatDueDate(p.DueAt), p.TimeStr())
	fmt.Fprintf(&b, "*Priority:* %s\n", p.PriorityStr())
	if p.SourceURL != "" {
		fmt.Fprintf(&b, "*Link:* %s\n", p.SourceURL)
	}
	b.WriteString("\nDon't forget to complete this task on time!")
	return b.String()
}

func PushTitle(p Payload) string {
	return fmt.Sprintf("Deadline: %s", p.Title)
}

func PushBody(p Payload) string {
	return fmt.Sprintf("Due %s - Priority: %s", p.TimeStr(), p.PriorityStr())
}
