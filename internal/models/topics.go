package models

// Topics is the closed registry of exam subtopics. The registry, not the
// question catalog, is the authoritative domain for topic weighting:
// questions tagged outside it fall back to a neutral weight.
var Topics = []string{
	"iam",
	"ec2",
	"s3",
	"vpc",
	"rds",
	"dynamodb",
	"lambda",
	"cloudformation",
	"cloudwatch",
	"cloudfront",
	"route53",
	"sqs",
	"sns",
	"elb",
	"autoscaling",
	"ebs",
	"efs",
	"kms",
	"apigateway",
}

var topicSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Topics))
	for _, t := range Topics {
		set[t] = struct{}{}
	}
	return set
}()

// KnownTopic reports whether id is part of the fixed topic registry.
func KnownTopic(id string) bool {
	_, ok := topicSet[id]
	return ok
}
