package cli

import (
	"github.com/spf13/cobra"

	"stowage/internal/domain"
	"stowage/internal/service"
)

func newSMSCmd(a *app) *cobra.Command {
	var smsType, senderID string
	cmd := &cobra.Command{
		Use:   "sms PHONE MESSAGE",
		Short: "Send a text message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.notificationService()
			if err != nil {
				return err
			}
			res, err := svc.SendSMS(cmd.Context(), service.SendSMSInput{
				PhoneNumber: args[0],
				Message:     args[1],
				Type:        domain.SMSType(smsType),
				SenderID:    senderID,
			})
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "message id %s\n", res.MessageID)
			return nil
		},
	}
	cmd.Flags().StringVar(&smsType, "type", string(domain.SMSTransactional), "Transactional or Promotional")
	cmd.Flags().StringVar(&senderID, "sender-id", "", "sender id shown to the recipient (default from config)")
	return cmd
}

func newEmailCmd(a *app) *cobra.Command {
	var text, html string
	cmd := &cobra.Command{
		Use:   "email TO SUBJECT",
		Short: "Send an email",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.notificationService()
			if err != nil {
				return err
			}
			res, err := svc.SendEmail(cmd.Context(), service.SendEmailInput{
				To:       args[0],
				Subject:  args[1],
				TextBody: text,
				HTMLBody: html,
			})
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "message id %s\n", res.MessageID)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "plain text body")
	cmd.Flags().StringVar(&html, "html", "", "HTML body")
	return cmd
}
