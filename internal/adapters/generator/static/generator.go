// Package static provides a deterministic built-in candidate generator. It is
// the fallback when the configured LLM provider fails, the default in fresh
// installs, and the generator used by tests.
package static

import (
	"context"
	"fmt"

	"github.com/phishdrill/phishdrill/internal/core"
)

// Generator serves candidates from a built-in corpus.
type Generator struct {
	corpus []core.CandidateItem
}

// NewGenerator creates a static generator over the built-in seed corpus.
func NewGenerator() *Generator {
	return &Generator{corpus: seedCorpus}
}

// Generate returns up to count items from the corpus, in corpus order.
// Re-running against the same store is harmless: the pipeline deduplicates
// already-persisted samples.
func (g *Generator) Generate(_ context.Context, count int) ([]core.CandidateItem, error) {
	if count < core.MinBatchSize || count > core.MaxBatchSize {
		return nil, fmt.Errorf("count %d out of range [%d, %d]", count, core.MinBatchSize, core.MaxBatchSize)
	}
	if count > len(g.corpus) {
		count = len(g.corpus)
	}
	return append([]core.CandidateItem(nil), g.corpus[:count]...), nil
}

var seedCorpus = []core.CandidateItem{
	{
		Subject:     "URGENT: Verify Your Account Now!",
		SenderName:  "Amazon Security",
		SenderEmail: "security@amazon-verify.com",
		BodyMarkup:  `<p>Your account has been suspended. <a href="http://amazon-verify.com/restore">Restore access</a> within 24 hours or lose your order history.</p>`,
		IsPhish:     true,
		Explanation: "The sender domain is a lookalike, the tone is artificially urgent, and the restore link is not secured.",
	},
	{
		Subject:     "Your Order #12345 Has Shipped",
		SenderName:  "Amazon",
		SenderEmail: "noreply@amazon.com",
		BodyMarkup:  `<p>Good news! Your package is on the way. <a href="https://amazon.com/orders/12345">Track your package</a>.</p>`,
		IsPhish:     false,
		Explanation: "A routine shipping notice from the real sender domain with a secure link to the same domain.",
	},
	{
		Subject:     "Invoice overdue - wire transfer required",
		SenderName:  "Billing Department",
		SenderEmail: "billing@secure-billing-portal.net",
		BodyMarkup:  `<p>Your invoice is past due. Avoid legal action by completing the wire transfer today. <a href="http://bit.ly/pay-invoice">Pay now</a>.</p>`,
		IsPhish:     true,
		Explanation: "It demands a payment under threat of legal action through a shortened, unsecured link.",
	},
	{
		Subject:     "Team lunch on Friday",
		SenderName:  "Dana Whitfield",
		SenderEmail: "dana.whitfield@brightagency.example.com",
		BodyMarkup:  `<p>Hi all, we're doing lunch at noon on Friday in the main kitchen. Reply if you have dietary restrictions.</p>`,
		IsPhish:     false,
		Explanation: "An ordinary internal note with no links, no requests for data, and a plausible sender.",
	},
	{
		Subject:     "Your PayPal acount needs attention",
		SenderName:  "PayPal Support",
		SenderEmail: "help@paypal-support.net",
		BodyMarkup:  `<p>We detected unusual activity. Confirm your password and date of birth <a href="http://paypal-support.net/confirm">here</a> immediatly.</p>`,
		IsPhish:     true,
		Explanation: "Misspellings, a lookalike support domain, and a request for your password are classic phishing tells.",
	},
	{
		Subject:     "March newsletter: what's new",
		SenderName:  "Field Notes Weekly",
		SenderEmail: "editor@fieldnotesweekly.example.com",
		BodyMarkup:  `<p>This month: three new trail guides and an interview. <a href="https://fieldnotesweekly.example.com/march">Read the issue</a>.</p>`,
		IsPhish:     false,
		Explanation: "A newsletter from a consistent sender with a secure link to its own domain.",
	},
	{
		Subject:     "You've received a secure document",
		SenderName:  "DocuSign",
		SenderEmail: "notify@docusign-delivery.com",
		BodyMarkup:  `<p>A document is waiting for you. <a href="http://tinyurl.com/view-doc">Click here</a> to review and download the attached file.</p>`,
		IsPhish:     true,
		Explanation: "The delivery domain is not DocuSign's, and a generic link through a shortener asks you to download a file.",
	},
	{
		Subject:     "Password expires in 24 hours",
		SenderName:  "IT Helpdesk",
		SenderEmail: "helpdesk@gmail.com",
		BodyMarkup:  `<p>Your corporate password expires within 24 hours. Send your current password to this address to keep it active.</p>`,
		IsPhish:     true,
		Explanation: "No IT department mails from a free provider, and none asks you to send your password by email.",
	},
	{
		Subject:     "Reservation confirmed for Oct 12",
		SenderName:  "Harbor House",
		SenderEmail: "reservations@harborhouse.example.com",
		BodyMarkup:  `<p>Your table for four is confirmed at 7 pm. <a href="https://harborhouse.example.com/booking">Manage your booking</a>.</p>`,
		IsPhish:     false,
		Explanation: "A confirmation with a secure link that matches the sender's domain.",
	},
	{
		Subject:     "hey quick favor - gift cards",
		SenderName:  "Michael Torres, CEO",
		SenderEmail: "mtorres.office@mail.com",
		BodyMarkup:  `<p>Hey, are you at your desk? I need you to buy 5 gift cards for a client real quick and send me the codes. Keep it between us. thx</p>`,
		IsPhish:     true,
		Explanation: "An executive writing casually from a free mailbox and asking for gift card codes is a textbook impersonation scam.",
	},
	{
		Subject:     "Action required: unusual sign-in to your Microsoft account",
		SenderName:  "Microsoft Account Team",
		SenderEmail: "alerts@microsoft-account-update.com",
		BodyMarkup:  `<p>We blocked a sign-in from a new device. <a href="http://203.0.113.5/verify">Verify now</a> or your account will be closed.</p>`,
		IsPhish:     true,
		Explanation: "The sender domain imitates Microsoft, the link goes to a raw IP address, and the message threatens account closure.",
	},
	{
		Subject:     "Receipt for your subscription renewal",
		SenderName:  "Netflix",
		SenderEmail: "info@netflix.com",
		BodyMarkup:  `<p>Your plan renewed for $15.49. No action is needed. <a href="https://netflix.com/account">View billing details</a>.</p>`,
		IsPhish:     false,
		Explanation: "A standard receipt from the genuine domain that asks for nothing.",
	},
}
