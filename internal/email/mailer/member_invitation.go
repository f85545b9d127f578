// internal/email/mailer/member_invitation.go
package mailer

import (
	"fmt"

	"github.com/crewbase/crewbase/internal/email"
)

// InvitationTemplateData contains data for the member invitation template
type InvitationTemplateData struct {
	Name        string
	InviterName string
	CompanyName string
	LoginLink   string
}

// SendMemberInvitation notifies a newly provisioned manager or employee that
// an account was created for them.
func SendMemberInvitation(s *email.Service, to, name, inviterName, companyName, baseURL string) error {
	templateData := InvitationTemplateData{
		Name:        name,
		InviterName: inviterName,
		CompanyName: companyName,
		LoginLink:   fmt.Sprintf("%s/login", baseURL),
	}

	emailData := email.EmailData{
		To:           to,
		FromName:     "Crewbase",
		Subject:      fmt.Sprintf("You've been added to %s on Crewbase", companyName),
		TemplateName: "member_invitation",
		TemplateData: templateData,
	}

	return s.SendEmail(emailData)
}
