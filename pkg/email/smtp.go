package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"quizproctor/config"
)

type SMTPClient struct {
	config *config.SMTPConfig
}

func NewSMTPClient(cfg *config.SMTPConfig) *SMTPClient {
	return &SMTPClient{
		config: cfg,
	}
}

type EmailData struct {
	To      string
	Subject string
	Body    string
}

func (c *SMTPClient) SendEmail(data EmailData) error {
	var auth smtp.Auth
	if c.config.Username != "" || c.config.Password != "" {
		auth = smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
	}

	msg := c.buildMessage(data)

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	err := smtp.SendMail(addr, auth, c.config.From, []string{data.To}, []byte(msg))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (c *SMTPClient) buildMessage(data EmailData) string {
	msg := fmt.Sprintf("From: %s\r\n", c.config.From)
	msg += fmt.Sprintf("To: %s\r\n", data.To)
	msg += fmt.Sprintf("Subject: %s\r\n", data.Subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=UTF-8\r\n"
	msg += "\r\n"
	msg += data.Body

	return msg
}

func (c *SMTPClient) SendAuthCode(email, code string) error {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .code { font-size: 32px; font-weight: bold; color: #7c3aed; letter-spacing: 5px; margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>QuizProctor - Verification Code</h2>
        <p>Your verification code is:</p>
        <div class="code">{{.Code}}</div>
        <p>This code will expire in 5 minutes.</p>
        <div class="footer">
            <p>If you didn't request this code, please ignore this email.</p>
        </div>
    </div>
</body>
</html>
`

	t, err := template.New("auth_code").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, map[string]string{"Code": code}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return c.SendEmail(EmailData{
		To:      email,
		Subject: "QuizProctor - Your Verification Code",
		Body:    body.String(),
	})
}

type QuizResultData struct {
	QuizTitle      string
	Score          int
	TotalQuestions int
	Percentage     int
	Passed         bool
}

func (c *SMTPClient) SendQuizResults(email string, data QuizResultData) error {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .score { font-size: 32px; font-weight: bold; color: #7c3aed; margin: 20px 0; }
        .passed { color: #16a34a; font-weight: bold; }
        .failed { color: #dc2626; font-weight: bold; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>QuizProctor - Your Results for {{.QuizTitle}}</h2>
        <div class="score">{{.Score}} / {{.TotalQuestions}} ({{.Percentage}}%)</div>
        {{if .Passed}}
        <p class="passed">Congratulations, you passed!</p>
        {{else}}
        <p class="failed">You did not reach the passing score this time.</p>
        {{end}}
        <p>Log in to QuizProctor to review your submission and see where you rank on the leaderboard.</p>
        <div class="footer">
            <p>This is an automated message from QuizProctor.</p>
        </div>
    </div>
</body>
</html>
`

	t, err := template.New("quiz_results").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return c.SendEmail(EmailData{
		To:      email,
		Subject: fmt.Sprintf("QuizProctor - Results for %s", data.QuizTitle),
		Body:    body.String(),
	})
}
