package extract

import (
	"fmt"
	"strings"

	"github.com/Veraticus/six-degrees/internal/model"
)

const jsonOnlySystemPrompt = "You are an expert at analyzing business email. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

// threadBodyPreview caps per-message body text in thread summary prompts.
const threadBodyPreview = 500

func messageHeader(msg model.RawMessage) string {
	return fmt.Sprintf(`EMAIL DETAILS:
From: %s
To: %s
Cc: %s
Subject: %s
Date: %s

EMAIL BODY:
%s`, msg.From, msg.To, msg.Cc, msg.Subject, msg.Date, msg.Body)
}

func entityPrompt(msg model.RawMessage) string {
	return fmt.Sprintf(`Analyze the following email and extract all people and companies mentioned:

%s

Extract the following information in JSON format:

{
    "people": [
        {
            "name": "Full name of person",
            "email": "email address if available",
            "role": "job title or role if mentioned",
            "company": "company they work for if mentioned",
            "confidence": 0.9,
            "context": "brief context of how they were mentioned"
        }
    ],
    "companies": [
        {
            "name": "Company name",
            "domain": "company domain if inferable from email",
            "confidence": 0.8,
            "context": "brief context of how company was mentioned"
        }
    ]
}

Guidelines:
1. Include the sender and all recipients
2. Look for people mentioned in the body (e.g., "John from Marketing said...")
3. Extract company names from email domains and mentions in text
4. Assign confidence scores (0.0-1.0) based on how certain you are
5. Only include people/companies with confidence > 0.5
6. Focus on business-related mentions, not casual references`, messageHeader(msg))
}

func interactionPrompt(msg model.RawMessage) string {
	return fmt.Sprintf(`Analyze the following email and provide a structured summary:

%s

Provide the following analysis in JSON format:

{
    "interaction_summary": "Concise summary of what this email is about (1-2 sentences)",
    "interaction_type": "email/meeting/call/decision/inquiry/update/other",
    "key_topics": ["main topics discussed"],
    "business_context": "brief description of the business context (hiring, sales, partnership, etc.)"
}

Guidelines:
1. Focus on business-relevant content
2. Identify the primary business context
3. Keep summaries concise but informative`, messageHeader(msg))
}

func expertisePrompt(msg model.RawMessage, known []model.PersonCandidate) string {
	var people strings.Builder
	for _, p := range known {
		fmt.Fprintf(&people, "- %s: %s\n", p.Name, p.Context)
	}

	return fmt.Sprintf(`Analyze the following email and identify which people demonstrate expertise in specific areas:

%s

PEOPLE IDENTIFIED:
%s
Identify expertise demonstrated in JSON format:

{
    "expertise_instances": [
        {
            "person_name": "name of person demonstrating expertise",
            "expertise_area": "area of expertise",
            "confidence": 0.8,
            "evidence": "specific text or behavior that demonstrates this expertise",
            "context": "how this expertise was applied in the interaction"
        }
    ]
}

Expertise areas to consider:
- hiring: Recruitment and talent acquisition
- growth: Business growth and scaling
- strategy: Strategic planning and business strategy
- technology: Technical expertise and software development
- marketing: Marketing and customer acquisition
- finance: Financial planning and investment
- operations: Business operations and management
- sales: Sales and business development
- product: Product development and management
- leadership: Leadership and team management

Guidelines:
1. Look for people providing advice, insights, or guidance
2. Identify who has the knowledge/expertise in each topic
3. Consider both explicit statements and implied expertise
4. Only assign expertise with confidence > 0.6
5. Focus on professional/business expertise, not general knowledge`, messageHeader(msg), people.String())
}

func rolesPrompt(msg model.RawMessage, known []model.PersonCandidate) string {
	var people strings.Builder
	for _, p := range known {
		fmt.Fprintf(&people, "- %s (%s)\n", p.Name, p.Email)
	}

	return fmt.Sprintf(`Analyze the following email and identify each person's role in the interaction:

%s

PEOPLE INVOLVED:
%s
Identify participant roles in JSON format:

{
    "participant_roles": [
        {
            "person_name": "name of person",
            "email": "email address if known",
            "role_in_interaction": "sender/recipient/expert/requester/decision_maker/informed/cc",
            "is_expert": false,
            "expertise_area": "area of expertise if they are the expert",
            "confidence": 0.9
        }
    ]
}

Role definitions:
- sender: Person who wrote the email
- recipient: Primary recipient actively involved in discussion
- expert: Person providing expertise or guidance
- requester: Person asking for something or making a request
- decision_maker: Person making or influencing decisions
- informed: Person being kept informed but not actively participating
- cc: Person copied for awareness

Guidelines:
1. Identify who is driving the conversation
2. Look for expertise being demonstrated
3. Consider both explicit and implicit roles
4. Only assign roles with confidence > 0.7`, messageHeader(msg), people.String())
}

func threadSummaryPrompt(thread model.Thread) string {
	var msgs strings.Builder
	for i, msg := range thread.Messages {
		body := msg.Body
		if truncated := truncateRunes(body, threadBodyPreview); truncated != body {
			body = truncated + "..."
		}
		fmt.Fprintf(&msgs, "EMAIL %d:\nFrom: %s\nDate: %s\nSubject: %s\nBody: %s\n\n",
			i+1, msg.From, msg.Date, msg.Subject, body)
	}

	return fmt.Sprintf(`Analyze the following email thread and provide a comprehensive summary:

EMAIL THREAD:
%s
Provide a thread analysis in JSON format:

{
    "thread_summary": "Comprehensive summary of the entire thread (2-3 sentences)",
    "key_topics": ["main topics of the thread"],
    "business_outcome": "business result or next step from this thread"
}

Guidelines:
1. Track how the conversation evolved over multiple emails
2. Identify key decision points and who influenced them
3. Extract concrete outcomes and next steps
4. Consider the business context and implications`, msgs.String())
}
