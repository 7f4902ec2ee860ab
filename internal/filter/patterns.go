package filter

// automatedSenderPatterns match local parts and mailbox names used by
// automated systems. Matched against the raw From header.
func automatedSenderPatterns() []string {
	return []string{
		`noreply@`,
		`no-reply@`,
		`do-not-reply@`,
		`notification@`,
		`alerts@`,
		`mailer@`,
		`digest@`,
		`updates@`,
		`calendar@`,
		`meetings@`,
		`invitations@`,
		`team@`,
		`support@`,
		`billing@`,
		`account@`,
		`security@`,
		`privacy@`,
		`legal@`,
		`abuse@`,
		`postmaster@`,
		`admin@`,
	}
}

// bulkMailerDomains are domains operated by email marketing and push
// notification platforms. Mail relayed through them is never personal.
func bulkMailerDomains() []string {
	return []string{
		"mailchimp.com",
		"sendgrid.com",
		"constantcontact.com",
		"campaignmonitor.com",
		"mailgun.com",
		"postmarkapp.com",
		"convertkit.com",
		"aweber.com",
		"getresponse.com",
		"activecampaign.com",
		"hubspot.com",
		"salesforce.com",
		"marketo.com",
		"pardot.com",
		"customer.io",
		"braze.com",
		"leanplum.com",
		"airship.com",
		"onesignal.com",
		"pushwoosh.com",
	}
}

// subjectPatterns match subject lines typical of receipts, confirmations,
// and other transactional mail.
func subjectPatterns() []string {
	return []string{
		`^\s*\[.*\]\s*`,
		`^\s*Re:\s*\[.*\]\s*`,
		`^\s*Fwd:\s*\[.*\]\s*`,
		`Your .* statement`,
		`Your .* receipt`,
		`Your .* invoice`,
		`Your .* order`,
		`Your .* subscription`,
		`Your .* account`,
		`Your .* password`,
		`Your .* verification`,
		`Your .* confirmation`,
		`Your .* registration`,
		`Your .* booking`,
		`Your .* reservation`,
		`Payment.*received`,
		`Transaction.*complete`,
		`Order.*shipped`,
		`Delivery.*update`,
		`Package.*tracking`,
		`Shipping.*notification`,
		`Appointment.*reminder`,
		`Meeting.*reminder`,
		`Calendar.*invitation`,
		`Event.*invitation`,
		`You.*been.*invited`,
		`You.*been.*added`,
		`You.*been.*mentioned`,
		`Welcome to`,
		`Thank you for`,
		`Confirm your`,
		`Verify your`,
		`Update your`,
		`Change your`,
		`Reset your`,
		`Your.*has been`,
		`Your.*have been`,
		`Your.*was`,
		`Your.*were`,
		`Important notice`,
		`Action required`,
		`Urgent.*required`,
		`Security.*alert`,
		`Privacy.*update`,
		`Terms.*update`,
		`Policy.*update`,
	}
}

// bodyPatterns match boilerplate that only appears in bulk mail.
func bodyPatterns() []string {
	return []string{
		`click here to unsubscribe`,
		`unsubscribe.*here`,
		`opt out.*here`,
		`preferences.*here`,
		`manage.*subscription`,
		`update.*preferences`,
		`download.*app`,
		`get.*app`,
		`install.*app`,
		`follow us on`,
		`connect with us`,
		`social media`,
		`facebook.*twitter`,
		`instagram.*linkedin`,
		`terms.*conditions`,
		`privacy.*policy`,
		`legal.*notice`,
		`disclaimer`,
		`no longer receive`,
		`stop receiving`,
		`don't want to receive`,
		`if you received this`,
		`this email was sent`,
		`sent to.*because`,
		`you received this`,
		`view this email`,
		`display problems`,
		`email not displaying`,
		`view in browser`,
		`online version`,
	}
}

// bulkCategoryLabels are Gmail categories that mark bulk mail.
func bulkCategoryLabels() []string {
	return []string{"CATEGORY_PROMOTIONS", "CATEGORY_SOCIAL", "CATEGORY_UPDATES"}
}

// notificationSenders are exact sender addresses for Google product
// notifications that slip past the generic sender patterns.
func notificationSenders() []string {
	return []string{
		"calendar-notification@google.com",
		"calendar-noreply@google.com",
		"drive-shares-noreply@google.com",
		"docs-noreply@google.com",
		"sheets-noreply@google.com",
		"slides-noreply@google.com",
		"meet-noreply@google.com",
		"classroom-noreply@google.com",
		"no-reply@accounts.google.com",
		"security-noreply@google.com",
		"password-assistance@accounts.google.com",
	}
}
